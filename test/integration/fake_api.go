//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-debate-client/internal/model"
)

// fakeAPI is a minimal in-memory rendition of the debate server: enough of
// the auth, debate, queue, match and vote endpoints to drive the client end
// to end, including the reveal rule and the one-vote-per-user rule.
type fakeAPI struct {
	mu       sync.Mutex
	users    map[string]fakeUser // by email
	debates  map[string]model.Debate
	queues   map[string][]model.QueueEntry // by user id
	matches  map[string]model.Match
	voted    map[string]map[string]bool // match id -> user id
	tokenKey []byte
}

type fakeUser struct {
	id       string
	username string
	password string
	roles    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users:    map[string]fakeUser{},
		debates:  map[string]model.Debate{},
		queues:   map[string][]model.QueueEntry{},
		matches:  map[string]model.Match{},
		voted:    map[string]map[string]bool{},
		tokenKey: []byte("integration-secret"),
	}
}

func (f *fakeAPI) addUser(id string, username string, email string, password string, roles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users[email] = fakeUser{id: id, username: username, password: password, roles: roles}
}

func (f *fakeAPI) addDebate(d model.Debate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.debates[d.ID] = d
}

func (f *fakeAPI) addMatch(m model.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.matches[m.ID] = m
}

func (f *fakeAPI) issueToken(t *testing.T, user fakeUser) string {
	t.Helper()

	claims := jwt.MapClaims{
		"nameid":      user.id,
		"unique_name": user.username,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
	if len(user.roles) == 1 {
		claims["role"] = user.roles[0]
	} else if len(user.roles) > 1 {
		claims["role"] = user.roles
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.tokenKey)
	require.NoError(t, err)

	return token
}

// userFrom authenticates a request; a missing or unparsable bearer yields
// ("", false) and the handler answers 401.
func (f *fakeAPI) userFrom(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	parsed, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(token *jwt.Token) (any, error) {
		return f.tokenKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, _ := claims["nameid"].(string)

	return id, id != ""
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()

	r.Post("/api/Auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)

		f.mu.Lock()
		user, exists := f.users[body.Email]
		f.mu.Unlock()
		if !exists || user.password != body.Password {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"accessToken": f.issueToken(t, user)})
	})

	r.Get("/api/Debates/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		debate, exists := f.debates[chi.URLParam(req, "id")]
		f.mu.Unlock()
		if !exists {
			writeError(w, http.StatusNotFound, "debate not found")
			return
		}
		writeJSON(w, http.StatusOK, debate)
	})

	r.Get("/api/debates/queue/mine", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := f.userFrom(req)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		f.mu.Lock()
		entries := f.queues[userID]
		f.mu.Unlock()
		if entries == nil {
			entries = []model.QueueEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Post("/api/debates/{id}/join", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := f.userFrom(req)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		debateID := chi.URLParam(req, "id")
		var body struct {
			Side model.Side `json:"side"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()

		if _, exists := f.debates[debateID]; !exists {
			writeError(w, http.StatusNotFound, "debate not found")
			return
		}
		for _, entry := range f.queues[userID] {
			if entry.DebateID == debateID {
				writeError(w, http.StatusConflict, "already queued")
				return
			}
		}

		f.queues[userID] = append(f.queues[userID], model.QueueEntry{
			DebateID: debateID,
			Side:     body.Side,
			JoinedAt: time.Now().UTC(),
		})
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/api/Matches/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		match, exists := f.matches[chi.URLParam(req, "id")]
		f.mu.Unlock()
		if !exists {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeJSON(w, http.StatusOK, match)
	})

	r.Get("/api/Matches/mine", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := f.userFrom(req)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		f.mu.Lock()
		mine := []model.Match{}
		for _, m := range f.matches {
			if m.ProUserID == userID || m.ControUserID == userID {
				mine = append(mine, m)
			}
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, mine)
	})

	r.Post("/api/matches/{id}/votes", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := f.userFrom(req)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		matchID := chi.URLParam(req, "id")
		var body struct {
			Value model.Side `json:"value"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()

		match, exists := f.matches[matchID]
		if !exists {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if match.ProUserID == userID || match.ControUserID == userID {
			writeError(w, http.StatusForbidden, "participants cannot vote on their own match")
			return
		}
		if f.voted[matchID] == nil {
			f.voted[matchID] = map[string]bool{}
		}
		if f.voted[matchID][userID] {
			writeError(w, http.StatusConflict, "already voted")
			return
		}

		f.voted[matchID][userID] = true
		if body.Value == model.SideContro {
			match.ControCount++
		} else {
			match.ProCount++
		}
		match.TotalVotes++
		f.matches[matchID] = match
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
