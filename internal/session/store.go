package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"go-debate-client/internal/api"
	"go-debate-client/internal/identity"
	"go-debate-client/internal/model"
	"go-debate-client/pkg/apierror"
)

type ChangeKind string

const (
	ChangeLogin   ChangeKind = "login"
	ChangeLogout  ChangeKind = "logout"
	ChangeExpired ChangeKind = "expired"
)

type Change struct {
	Kind     ChangeKind
	Identity model.Identity
}

// AuthAPI is the slice of the remote API the store needs. The concrete
// client lives in internal/api; the store only sees this interface.
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
}

// Store is the single owner of the token+identity pair. Token and identity
// always change together under one lock; no caller can ever observe a token
// without its matching identity.
type Store struct {
	file *TokenFile
	auth AuthAPI

	mu       sync.RWMutex
	token    string
	identity model.Identity
	active   bool

	subMu       sync.RWMutex
	subscribers map[string]chan Change
}

func NewStore(file *TokenFile) *Store {
	return &Store{
		file:        file,
		subscribers: map[string]chan Change{},
	}
}

// BindAuth attaches the auth client after transport wiring; the transport
// needs the store's token source before the auth client can exist.
func (s *Store) BindAuth(auth AuthAPI) {
	s.auth = auth
}

// Initialize restores the persisted session at startup. A malformed stored
// token degrades silently to "no session" and the stale file is removed.
func (s *Store) Initialize() {
	token, err := s.file.Load()
	if err != nil {
		slog.Warn("could not read persisted token", "error", err)
		return
	}
	if token == "" {
		return
	}

	id, err := identity.Resolve(token)
	if err != nil {
		slog.Warn("persisted token is malformed, discarding")
		_ = s.file.Clear()
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = id
	s.active = true
	s.mu.Unlock()

	slog.Info("session restored", "user", id.Username)
}

// Login exchanges credentials for a token, resolves the identity and swaps
// the whole session atomically. On any failure the current state is left
// untouched.
func (s *Store) Login(ctx context.Context, email string, password string) error {
	res, err := s.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	token, ok := extractToken(res)
	if !ok {
		// a 2xx login without a usable token is still a failed login
		return fmt.Errorf("%w: %w", apierror.New(apierror.KindAuth, "login response carried no token", 0), model.ErrTokenMissing)
	}

	id, err := identity.Resolve(token)
	if err != nil {
		return err
	}

	if err := s.file.Save(token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.identity = id
	s.active = true
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLogin, Identity: id})
	slog.Info("logged in", "user", id.Username)

	return nil
}

func (s *Store) Register(ctx context.Context, username string, email string, password string) error {
	return s.auth.Register(ctx, api.RegisterRequest{Username: username, Email: email, Password: password})
}

// Logout clears the persisted token and the in-memory pair atomically. No
// network call is involved.
func (s *Store) Logout() {
	if s.clear() {
		s.publish(Change{Kind: ChangeLogout})
		slog.Info("logged out")
	}
}

// Expire is the forced clear fired by the transport's 401 hook. Idempotent:
// concurrent 401s from parallel fetches produce one notification.
func (s *Store) Expire() {
	if s.clear() {
		s.publish(Change{Kind: ChangeExpired})
		slog.Warn("session expired, cleared")
	}
}

func (s *Store) clear() bool {
	s.mu.Lock()
	wasActive := s.active
	s.token = ""
	s.identity = model.Identity{}
	s.active = false
	s.mu.Unlock()

	if wasActive {
		_ = s.file.Clear()
	}

	return wasActive
}

// Token satisfies the transport's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Store) Identity() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity, s.active
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Subscribe returns a channel of session changes and an unsubscribe func.
// Publishes never block; a slow subscriber misses updates instead of
// stalling the store.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := uuid.NewString()
	ch := make(chan Change, 8)
	s.subscribers[id] = ch

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if ch, exists := s.subscribers[id]; exists {
			close(ch)
			delete(s.subscribers, id)
		}
	}

	return ch, unsubscribe
}

func (s *Store) publish(change Change) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}

// The token field name drifted across server versions. First present
// candidate wins, in this order.
func extractToken(res api.LoginResponse) (string, bool) {
	for _, candidate := range []string{res.Token, res.AccessToken, res.JWT} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate), true
		}
	}

	return "", false
}
