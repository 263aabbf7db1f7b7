package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-debate-client/pkg/apierror"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, func() string { return token })
}

func TestClientHeaders(t *testing.T) {
	t.Parallel()

	t.Run("attaches content type and bearer token", func(t *testing.T) {
		var gotAuth, gotContentType string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}, "tok-123")

		var out map[string]any
		require.NoError(t, client.Get(context.Background(), "/api/Debates", &out))
		require.Equal(t, "Bearer tok-123", gotAuth)
		require.Equal(t, "application/json", gotContentType)
	})

	t.Run("omits bearer when no token or call is unauthenticated", func(t *testing.T) {
		var gotAuth string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}, "tok-123")

		require.NoError(t, client.Post(context.Background(), "/api/Auth/login", map[string]string{"email": "a"}, nil, WithoutAuth()))
		require.Empty(t, gotAuth)
	})
}

func TestClientErrorMapping(t *testing.T) {
	t.Parallel()

	statusHandler := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}
	}

	t.Run("extracts first candidate message key", func(t *testing.T) {
		client := newTestClient(t, statusHandler(http.StatusConflict, `{"title":"nope","message":"already queued"}`), "tok")

		err := client.Post(context.Background(), "/api/debates/d1/join", map[string]int{"side": 1}, nil)
		require.Error(t, err)
		require.True(t, apierror.IsKind(err, apierror.KindConflict))
		require.Contains(t, err.Error(), "already queued")
	})

	t.Run("falls back through error and title keys", func(t *testing.T) {
		client := newTestClient(t, statusHandler(http.StatusForbidden, `{"title":"forbidden by policy"}`), "tok")

		err := client.Post(context.Background(), "/api/matches/m1/votes", map[string]int{"value": 1}, nil)
		require.True(t, apierror.IsKind(err, apierror.KindPermission))
		require.Contains(t, err.Error(), "forbidden by policy")
	})

	t.Run("non-json error body falls back to HTTP status string", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream broke"))
		}, "tok")

		err := client.Get(context.Background(), "/api/Matches/mine", nil)
		require.True(t, apierror.IsKind(err, apierror.KindTransport))
		require.Contains(t, err.Error(), "HTTP 502")
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		client := newTestClient(t, statusHandler(http.StatusNotFound, `{"message":"no such debate"}`), "tok")

		err := client.Get(context.Background(), "/api/Debates/missing", nil)
		require.True(t, apierror.IsKind(err, apierror.KindNotFound))
	})
}

func TestClientUnauthorized(t *testing.T) {
	t.Parallel()

	t.Run("401 on authenticated call fires hook and maps to session expired", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, "stale-token")

		cleared := false
		client.SetUnauthorizedHook(func() { cleared = true })

		err := client.Get(context.Background(), "/api/Matches/mine", nil)
		require.True(t, cleared)
		require.True(t, apierror.IsKind(err, apierror.KindSessionExpired))
	})

	t.Run("401 on login flow is a credential rejection, hook untouched", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
		}, "")

		cleared := false
		client.SetUnauthorizedHook(func() { cleared = true })

		err := client.Post(context.Background(), "/api/Auth/login", map[string]string{"email": "x"}, nil, WithoutAuth())
		require.False(t, cleared)
		require.True(t, apierror.IsKind(err, apierror.KindAuth))
		require.Contains(t, err.Error(), "bad credentials")
	})
}

func TestClientDecoding(t *testing.T) {
	t.Parallel()

	t.Run("decodes json payloads", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"m1","phase":3}`))
		}, "tok")

		var out struct {
			ID    string `json:"id"`
			Phase int    `json:"phase"`
		}
		require.NoError(t, client.Get(context.Background(), "/api/Matches/m1", &out))
		require.Equal(t, "m1", out.ID)
		require.Equal(t, 3, out.Phase)
	})

	t.Run("tolerates empty bodies", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, "tok")

		var out map[string]any
		require.NoError(t, client.Post(context.Background(), "/api/matches/m1/votes", map[string]int{"value": 2}, &out))
		require.Nil(t, out)
	})
}
