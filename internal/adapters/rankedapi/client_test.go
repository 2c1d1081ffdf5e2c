package rankedapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankedoverlay/internal/adapters/rankedapi"
	"rankedoverlay/internal/constants"
	"rankedoverlay/internal/domain"
)

type mockedHttpClient struct {
	t    *testing.T
	do   func(req *http.Request) (*http.Response, error)
	urls []string
}

func (m *mockedHttpClient) Do(req *http.Request) (*http.Response, error) {
	m.t.Helper()
	require.Equal(m.t, http.MethodGet, req.Method)
	require.Equal(m.t, constants.USER_AGENT, req.Header.Get("User-Agent"))
	m.urls = append(m.urls, req.URL.String())
	return m.do(req)
}

func jsonResponse(statusCode int, body string) (*http.Response, error) {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}, nil
}

func TestRankedAPIGetPlayer(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		client := &mockedHttpClient{
			t: t,
			do: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(200, `{"status":"success","data":{"uuid":"70eb9286e3e24153a8b37c8f884f1292","nickname":"7rowl","eloRate":1699,"eloRank":53}}`)
			},
		}
		api, err := rankedapi.NewRankedAPI(client, "https://api.example.com/api")
		require.NoError(t, err)

		player, err := api.GetPlayer(context.Background(), "7rowl")
		require.NoError(t, err)
		assert.Equal(t, "70eb9286e3e24153a8b37c8f884f1292", player.UUID)
		assert.Equal(t, "7rowl", player.Nickname)
		require.NotNil(t, player.EloRate)
		assert.Equal(t, 1699, *player.EloRate)
		assert.False(t, player.QueriedAt.IsZero())

		require.Equal(t, []string{"https://api.example.com/api/users/7rowl"}, client.urls)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		client := &mockedHttpClient{
			t: t,
			do: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(404, `{"status":"error","data":null}`)
			},
		}
		api, err := rankedapi.NewRankedAPI(client, "https://api.example.com/api")
		require.NoError(t, err)

		_, err = api.GetPlayer(context.Background(), "doesnotexist")
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		client := &mockedHttpClient{
			t: t,
			do: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection reset")
			},
		}
		api, err := rankedapi.NewRankedAPI(client, "https://api.example.com/api")
		require.NoError(t, err)

		_, err = api.GetPlayer(context.Background(), "7rowl")
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	})
}

func TestRankedAPIGetMatchPage(t *testing.T) {
	t.Parallel()

	t.Run("requests the right page", func(t *testing.T) {
		t.Parallel()

		client := &mockedHttpClient{
			t: t,
			do: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(200, `{"status":"success","data":[]}`)
			},
		}
		api, err := rankedapi.NewRankedAPI(client, "https://api.example.com/api")
		require.NoError(t, err)

		matches, err := api.GetMatchPage(context.Background(), "70eb9286e3e24153a8b37c8f884f1292", 3)
		require.NoError(t, err)
		assert.Empty(t, matches)

		require.Equal(
			t,
			[]string{"https://api.example.com/api/users/70eb9286e3e24153a8b37c8f884f1292/matches?type=2&excludedecay=false&count=50&page=3"},
			client.urls,
		)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		client := &mockedHttpClient{
			t: t,
			do: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(502, ``)
			},
		}
		api, err := rankedapi.NewRankedAPI(client, "https://api.example.com/api")
		require.NoError(t, err)

		_, err = api.GetMatchPage(context.Background(), "70eb9286e3e24153a8b37c8f884f1292", 0)
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	})
}
