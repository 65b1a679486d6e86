package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/events"
)

// State is the three-valued view a route guard takes of a Store.
type State int

const (
	StatePending State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrMalformedAuthResult is returned when a credential exchange succeeds without a usable token
// and user.
var ErrMalformedAuthResult = errors.New("session: credential exchange returned no token or user")

var errMalformedIdentity = errors.New("session: identity resolution returned no usable user")

// Authenticator is the remote side of the session: credential exchange and identity resolution.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Dependencies encapsulates what a Store needs.
type Dependencies struct {
	// Subject identifies the owning browser in logs and events.
	Subject    string
	Auth       Authenticator
	Storage    Storage
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// Store is the single source of truth for who is logged in on one browser.
type Store struct {
	subject    string
	auth       Authenticator
	storage    Storage
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	// mu guards the fields below. Mutators hold it across the storage write so memory and
	// storage never disagree.
	mu        sync.RWMutex
	token     string
	user      *domain.User
	hydrating bool
	// gen changes on every login, logout and rejection; a hydration that started under an
	// older generation is discarded.
	gen uint64

	hydrateOnce sync.Once
	hydrated    chan struct{}
}

// NewStore builds a Store in the hydrating state. Nothing is read until Hydrate runs.
func NewStore(deps Dependencies) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		subject:    deps.Subject,
		auth:       deps.Auth,
		storage:    deps.Storage,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
		hydrating:  true,
		hydrated:   make(chan struct{}),
	}
}

// Hydrate resolves a persisted token into a user. It runs once per Store; concurrent and later
// callers return once that single run has finished. Failures demote the Store to
// unauthenticated and are never retried.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer s.finishHydration()
		s.hydrate(ctx)
	})
}

// Hydrated is closed once hydration has completed.
func (s *Store) Hydrated() <-chan struct{} {
	return s.hydrated
}

func (s *Store) hydrate(ctx context.Context) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	token, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read persisted token", zap.String("subject", s.subject), zap.Error(err))
		}
		return
	}
	if token == "" {
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.token = token
	s.mu.Unlock()

	user, err := s.auth.CurrentUser(ctx, token)
	if err == nil && (user == nil || !user.Role.Valid()) {
		err = errMalformedIdentity
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.token = ""
		s.user = nil
		s.removePersisted(ctx)
		s.mu.Unlock()

		s.logger.Info("session hydration failed", zap.String("subject", s.subject), zap.Error(err))
		s.publish(ctx, events.EventSessionHydrationFailed, nil, &events.HydrationFailedPayload{Reason: err.Error()})
		return
	}
	resolved := *user
	s.user = &resolved
	s.mu.Unlock()

	s.publish(ctx, events.EventSessionHydrated, &resolved, nil)
}

func (s *Store) finishHydration() {
	s.mu.Lock()
	s.hydrating = false
	s.mu.Unlock()
	close(s.hydrated)
}

// Login exchanges credentials for a session. Failures are returned verbatim and leave the Store
// untouched. Concurrent logins are not deduplicated; the last to resolve wins.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result)
}

// Register creates an account and signs it in, exactly like a successful Login.
func (s *Store) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	result, err := s.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result)
}

func (s *Store) establish(ctx context.Context, result domain.AuthResult) (*domain.User, error) {
	if result.Token == "" || result.User == nil || !result.User.Role.Valid() {
		return nil, ErrMalformedAuthResult
	}
	user := *result.User
	cached, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Set(ctx, map[string]string{KeyToken: result.Token, KeyUser: string(cached)}); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.gen++
	s.token = result.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("session established", zap.String("subject", s.subject), zap.Int64("user_id", int64(user.ID)))
	s.publish(ctx, events.EventSessionLoggedIn, &user, nil)

	out := user
	return &out, nil
}

// Logout clears the session in memory and storage. It never calls the backend and is
// idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	prev := s.user
	hadSession := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.removePersisted(ctx)
	s.mu.Unlock()

	if hadSession {
		s.publish(ctx, events.EventSessionLoggedOut, prev, nil)
	}
}

// Reject is called by the API transport when the backend refuses token. It clears the session
// like Logout, but only if token is still current, so a burst of rejected calls clears once.
// It reports whether this call cleared the session.
func (s *Store) Reject(ctx context.Context, token string) bool {
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		return false
	}
	s.gen++
	prev := s.user
	s.token = ""
	s.user = nil
	s.removePersisted(ctx)
	s.mu.Unlock()

	s.logger.Info("session rejected by api", zap.String("subject", s.subject))
	s.publish(ctx, events.EventSessionRejected, prev, nil)
	return true
}

// removePersisted must be called with mu held.
func (s *Store) removePersisted(ctx context.Context) {
	if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.logger.Warn("remove persisted session", zap.String("subject", s.subject), zap.Error(err))
	}
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the current user holds the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// Hydrating reports whether the startup resolution is still running.
func (s *Store) Hydrating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrating
}

// State folds hydration and authentication into the guard's three states.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.hydrating:
		return StatePending
	case s.token != "" && s.user != nil:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// User returns a copy of the resolved user, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the current user's role, or "" when signed out.
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Token returns the bearer token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subject returns the browser identifier the Store belongs to.
func (s *Store) Subject() string {
	return s.subject
}

// CachedUser returns the persisted display copy of the user. It is advisory only; the token
// decides whether anyone is signed in.
func (s *Store) CachedUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &user, nil
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   s.subject,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if user != nil {
		event.UserID = user.ID
		event.Role = user.Role
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Debug("session event handler failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
