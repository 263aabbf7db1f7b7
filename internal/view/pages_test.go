package view

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-debate-client/internal/api"
	"go-debate-client/internal/matchview"
	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type staticSession struct {
	identity model.Identity
	active   bool
}

func (s *staticSession) Identity() (model.Identity, bool) {
	return s.identity, s.active
}

func spectator(userID string) *staticSession {
	return &staticSession{identity: model.Identity{UserID: userID, Roles: []string{}}, active: true}
}

type fakeServer struct {
	mux        *http.ServeMux
	match      model.Match
	votes      atomic.Int32
	debateFail bool
}

func newFakeServer(t *testing.T, match model.Match) (*fakeServer, *transport.Client) {
	t.Helper()

	f := &fakeServer{mux: http.NewServeMux(), match: match}

	f.mux.HandleFunc("GET /api/Matches/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.match)
	})
	f.mux.HandleFunc("GET /api/Debates/", func(w http.ResponseWriter, r *http.Request) {
		if f.debateFail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeJSON(w, model.Debate{ID: f.match.DebateID, Title: "Cats vs Dogs", Status: model.DebateApproved})
	})
	f.mux.HandleFunc("POST /api/matches/", func(w http.ResponseWriter, r *http.Request) {
		if f.votes.Add(1) > 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"already voted"}`))
			return
		}
		f.match.TotalVotes++
		f.match.ProCount++
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(f.mux)
	t.Cleanup(server.Close)

	client := transport.New(transport.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, func() string { return "tok" })

	return f, client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func votingMatch() model.Match {
	return model.Match{
		ID:           "m1",
		DebateID:     "d1",
		ProUserID:    "u1",
		ControUserID: "u2",
		Phase:        model.PhaseVoting,
		CreatedAt:    time.Now().UTC(),
	}
}

func newMatchPage(client *transport.Client, session Session, out *bytes.Buffer) *MatchPage {
	return NewMatchPage(
		api.NewMatchesClient(client),
		api.NewDebatesClient(client),
		api.NewSubmissionsClient(client),
		api.NewVotesClient(client),
		session,
		NewRenderer(out),
	)
}

func TestMatchPageLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads match and debate title", func(t *testing.T) {
		_, client := newFakeServer(t, votingMatch())
		out := &bytes.Buffer{}
		page := newMatchPage(client, spectator("u3"), out)

		require.NoError(t, page.Load(context.Background(), "m1"))
		page.Render()
		require.Contains(t, out.String(), "Cats vs Dogs")
	})

	t.Run("title fetch failure degrades to the debate id", func(t *testing.T) {
		f, client := newFakeServer(t, votingMatch())
		f.debateFail = true
		out := &bytes.Buffer{}
		page := newMatchPage(client, spectator("u3"), out)

		require.NoError(t, page.Load(context.Background(), "m1"))
		page.Render()
		require.Contains(t, out.String(), "Debate: d1")
	})

	t.Run("a result arriving after leave is discarded", func(t *testing.T) {
		_, client := newFakeServer(t, votingMatch())
		page := newMatchPage(client, spectator("u3"), &bytes.Buffer{})

		page.Life.Leave()
		require.NoError(t, page.Load(context.Background(), "m1"))

		_, loaded := page.Match()
		require.False(t, loaded)
	})
}

func TestMatchPageVoting(t *testing.T) {
	t.Parallel()

	t.Run("spectator vote succeeds and the match is re-fetched", func(t *testing.T) {
		_, client := newFakeServer(t, votingMatch())
		out := &bytes.Buffer{}
		page := newMatchPage(client, spectator("u3"), out)
		require.NoError(t, page.Load(context.Background(), "m1"))

		require.NoError(t, page.Vote(context.Background(), model.SidePro))

		match, _ := page.Match()
		require.Equal(t, 1, match.TotalVotes)
		require.Contains(t, out.String(), "Vote recorded.")
	})

	t.Run("second vote surfaces the conflict", func(t *testing.T) {
		_, client := newFakeServer(t, votingMatch())
		out := &bytes.Buffer{}
		page := newMatchPage(client, spectator("u3"), out)
		require.NoError(t, page.Load(context.Background(), "m1"))

		require.NoError(t, page.Vote(context.Background(), model.SidePro))
		err := page.Vote(context.Background(), model.SidePro)
		require.Error(t, err)
		require.Contains(t, ErrorCopy(err), "already voted")
	})

	t.Run("participant vote never reaches the wire", func(t *testing.T) {
		f, client := newFakeServer(t, votingMatch())
		out := &bytes.Buffer{}
		page := newMatchPage(client, spectator("u1"), out)
		require.NoError(t, page.Load(context.Background(), "m1"))

		require.NoError(t, page.Vote(context.Background(), model.SidePro))
		require.Zero(t, f.votes.Load())
		require.Contains(t, out.String(), "disabled: participant")
	})

	t.Run("vote while busy is ignored", func(t *testing.T) {
		f, client := newFakeServer(t, votingMatch())
		page := newMatchPage(client, spectator("u3"), &bytes.Buffer{})
		require.NoError(t, page.Load(context.Background(), "m1"))

		require.True(t, page.vote.Begin())
		require.NoError(t, page.Vote(context.Background(), model.SidePro))
		require.Zero(t, f.votes.Load())
		page.vote.End()
	})
}

func TestDebatePage(t *testing.T) {
	t.Parallel()

	newDebateServer := func(t *testing.T, joinStatus int, queue string) *transport.Client {
		t.Helper()

		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/debates/queue/mine", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(queue))
		})
		mux.HandleFunc("GET /api/Debates/d1", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Debate{ID: "d1", Title: "T", Status: model.DebateApproved})
		})
		mux.HandleFunc("POST /api/debates/d1/join", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(joinStatus)
			if joinStatus == http.StatusConflict {
				_, _ = w.Write([]byte(`{"message":"already queued"}`))
			}
		})

		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		return transport.New(transport.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, func() string { return "tok" })
	}

	t.Run("free then optimistic in_this_debate after join", func(t *testing.T) {
		client := newDebateServer(t, http.StatusOK, `[]`)
		page := NewDebatePage(api.NewDebatesClient(client), spectator("u3"), NewRenderer(&bytes.Buffer{}))

		require.NoError(t, page.Load(context.Background(), "d1"))
		require.Equal(t, matchview.QueueFree, page.State())

		require.NoError(t, page.Join(context.Background(), model.SidePro))
		require.Equal(t, matchview.QueueInThisDebate, page.State())
	})

	t.Run("409 is informational and still patches the queue state", func(t *testing.T) {
		client := newDebateServer(t, http.StatusConflict, `[]`)
		out := &bytes.Buffer{}
		page := NewDebatePage(api.NewDebatesClient(client), spectator("u3"), NewRenderer(out))

		require.NoError(t, page.Load(context.Background(), "d1"))
		require.NoError(t, page.Join(context.Background(), model.SidePro))
		require.Equal(t, matchview.QueueInThisDebate, page.State())
		require.Contains(t, out.String(), "already queued")
	})

	t.Run("queued elsewhere blocks the join locally", func(t *testing.T) {
		client := newDebateServer(t, http.StatusOK, `[{"debateId":"d9","side":1}]`)
		out := &bytes.Buffer{}
		page := NewDebatePage(api.NewDebatesClient(client), spectator("u3"), NewRenderer(out))

		require.NoError(t, page.Load(context.Background(), "d1"))
		require.Equal(t, matchview.QueueInOtherDebate, page.State())

		require.NoError(t, page.Join(context.Background(), model.SidePro))
		require.Contains(t, out.String(), "not available")
	})

	t.Run("guest classification skips the queue fetch", func(t *testing.T) {
		client := newDebateServer(t, http.StatusOK, `[]`)
		page := NewDebatePage(api.NewDebatesClient(client), &staticSession{}, NewRenderer(&bytes.Buffer{}))

		require.NoError(t, page.Load(context.Background(), "d1"))
		require.Equal(t, matchview.QueueGuest, page.State())
	})
}

func TestDashboardPage(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/Matches/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Match{
			{ID: "m-closed", Phase: model.PhaseClosed},
			{ID: "m-open", Phase: model.PhaseOpening},
		})
	})
	mux.HandleFunc("GET /api/debates/queue/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.QueueEntry{{DebateID: "d-gone", Side: model.SideContro}})
	})
	mux.HandleFunc("GET /api/Debates/d-gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := transport.New(transport.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, func() string { return "tok" })
	out := &bytes.Buffer{}
	page := NewDashboardPage(api.NewMatchesClient(client), api.NewDebatesClient(client), NewRenderer(out))

	require.NoError(t, page.Load(context.Background()))
	page.Render()

	rendered := out.String()
	require.Contains(t, rendered, "Active matches (1)")
	require.Contains(t, rendered, "Closed matches (1)")
	// title lookup failed, the id stands in
	require.Contains(t, rendered, "d-gone")
}
