package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"rankedoverlay/internal/adapters/rankedapi"
	"rankedoverlay/internal/app"
)

// One-shot stats lookup against the live ranked API, for quick checks
// without running the service. Usage:
//
//	get-stats <player> [since-RFC3339]
func main() {
	if len(os.Args) < 2 || os.Args[1] == "" {
		log.Fatal("No player name provided")
	}
	player := os.Args[1]

	var since *time.Time
	if len(os.Args) >= 3 {
		parsed, err := time.Parse(time.RFC3339, os.Args[2])
		if err != nil {
			log.Fatalf("Invalid since timestamp: %v", err)
		}
		since = &parsed
	}

	baseURL := os.Getenv("RANKED_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://mcsrranked.com/api"
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	api, err := rankedapi.NewRankedAPI(httpClient, baseURL)
	if err != nil {
		log.Fatalf("Failed to initialize ranked API client: %v", err)
	}

	getStats := app.BuildGetStats(api.GetPlayer, app.BuildCollectMatches(api), time.Now)

	snapshot, err := getStats(context.Background(), player, since)
	if err != nil {
		log.Fatalf("Failed to compute stats: %v", err)
	}

	elo := "unrated"
	if snapshot.EloRate != nil {
		elo = fmt.Sprint(*snapshot.EloRate)
	}

	fmt.Printf("%s (%s)\n", snapshot.Nickname, snapshot.UUID)
	fmt.Printf("  elo:          %s (%s)\n", elo, snapshot.RankTier)
	fmt.Printf("  w/l/d:        %d/%d/%d\n", snapshot.Wins, snapshot.Losses, snapshot.Draws)
	fmt.Printf("  win rate:     %.1f%%\n", snapshot.WinRate)
	fmt.Printf("  elo +/-:      %s\n", snapshot.EloDelta)
	fmt.Printf("  average time: %s\n", snapshot.AverageCompletionTime)
}
