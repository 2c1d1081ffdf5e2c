package config

import (
	"errors"
	"fmt"
	"os"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const defaultRankedAPIBaseURL = "https://mcsrranked.com/api"
const defaultPort = "8080"

type Config struct {
	port             string
	sentryDSN        string
	rankedAPIBaseURL string
	env              environment
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) RankedAPIBaseURL() string {
	return c.rankedAPIBaseURL
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, rankedAPIBaseURL: %s, ...}", string(c.env), c.port, c.rankedAPIBaseURL)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("RANKEDOVERLAY_ENVIRONMENT")
	if !ok {
		return missingKey("RANKEDOVERLAY_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: RANKEDOVERLAY_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	sentryDSN := os.Getenv("SENTRY_DSN")

	rankedAPIBaseURL := os.Getenv("RANKED_API_BASE_URL")
	if rankedAPIBaseURL == "" {
		rankedAPIBaseURL = defaultRankedAPIBaseURL
	}

	if env == production || env == staging {
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		port:             port,
		sentryDSN:        sentryDSN,
		rankedAPIBaseURL: rankedAPIBaseURL,
		env:              env,
	}, nil
}
