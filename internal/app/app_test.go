package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-debate-client/internal/api"
	"go-debate-client/internal/guard"
	"go-debate-client/internal/model"
	"go-debate-client/internal/session"
	"go-debate-client/internal/transport"
	"go-debate-client/internal/view"
)

func testToken(t *testing.T, userID string, username string, roles ...string) string {
	t.Helper()

	claims := jwt.MapClaims{"nameid": userID, "unique_name": username}
	if len(roles) > 0 {
		claims["role"] = roles[0]
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	return token
}

func newTestServer(t *testing.T, loginToken string) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/Auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"accessToken": loginToken})
	})
	mux.HandleFunc("GET /api/Debates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Debate{{ID: "d1", Title: "Cats vs Dogs", Status: model.DebateApproved}})
	})
	mux.HandleFunc("GET /api/Debates/d1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Debate{ID: "d1", Title: "Cats vs Dogs", Status: model.DebateApproved})
	})
	mux.HandleFunc("GET /api/debates/queue/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.QueueEntry{})
	})
	mux.HandleFunc("POST /api/debates/d1/join", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newTestApp(t *testing.T, baseURL string) (*App, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	store := session.NewStore(session.NewTokenFile(filepath.Join(t.TempDir(), "token")))
	httpClient := transport.New(transport.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, store.Token)
	httpClient.SetUnauthorizedHook(store.Expire)

	a := &App{
		store:       store,
		guards:      guard.New(store),
		renderer:    view.NewRenderer(out),
		auth:        api.NewAuthClient(httpClient),
		debates:     api.NewDebatesClient(httpClient),
		matches:     api.NewMatchesClient(httpClient),
		submissions: api.NewSubmissionsClient(httpClient),
		votes:       api.NewVotesClient(httpClient),
		moderation:  api.NewModerationClient(httpClient),
		out:         out,
	}
	store.BindAuth(a.auth)

	return a, out
}

func TestLoginReplaysFullInvocation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, testToken(t, "u3", "carol"))
	a, out := newTestApp(t, server.URL)
	ctx := context.Background()

	a.dispatch(ctx, "join", []string{"d1", "1"})
	require.Contains(t, out.String(), "Please log in first")

	out.Reset()
	a.dispatch(ctx, "login", []string{"carol@x", "pw"})

	rendered := out.String()
	require.Contains(t, rendered, "Returning to 'join d1 1'.")
	require.Contains(t, rendered, "Queued.")
	require.NotContains(t, rendered, "Usage: join")
}

func TestModeratorHomeRedirect(t *testing.T) {
	t.Parallel()

	t.Run("non-moderator lands on the debate list", func(t *testing.T) {
		server := newTestServer(t, testToken(t, "u3", "carol"))
		a, out := newTestApp(t, server.URL)

		a.dispatch(context.Background(), "login", []string{"carol@x", "pw"})
		out.Reset()

		a.dispatch(context.Background(), "mod", nil)
		require.Contains(t, out.String(), "Cats vs Dogs")
	})

	t.Run("the redirect runs under the caller's context", func(t *testing.T) {
		server := newTestServer(t, testToken(t, "u3", "carol"))
		a, out := newTestApp(t, server.URL)

		a.dispatch(context.Background(), "login", []string{"carol@x", "pw"})
		out.Reset()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a.dispatch(ctx, "mod", nil)
		require.Contains(t, out.String(), "Something went wrong")
	})
}
