// internal/domain/session/service.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
	"github.com/your-org/grocery-storefront/internal/infrastructure/storage"
	"github.com/your-org/grocery-storefront/internal/pkg/auth"
)

// Reader is the read side of the session, shared by every state that gates on it
type Reader interface {
	Current() *Identity
}

// Listener is notified synchronously after the identity changes. Listeners run
// while the session holds its write lock and must not call Login, Signup,
// Logout or Restore.
type Listener func(ctx context.Context, change Change)

// authResponse is the data payload of the login and signup endpoints
type authResponse struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// State holds the current identity and is its only writer
type State struct {
	api    api.Requester
	store  storage.Store
	key    string
	logger *logrus.Logger
	now    func() time.Time

	restoreOnce sync.Once

	// writeMu orders identity swaps together with their notifications
	writeMu sync.Mutex

	mu        sync.RWMutex
	identity  *Identity
	loading   bool
	listeners []Listener
}

var _ Reader = (*State)(nil)

// NewState creates a session state persisting under storageKey
func NewState(requester api.Requester, store storage.Store, storageKey string, logger *logrus.Logger) *State {
	return &State{
		api:     requester,
		store:   store,
		key:     storageKey,
		logger:  logger,
		now:     time.Now,
		loading: true,
	}
}

// Subscribe registers a listener for identity changes
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Current returns a copy of the signed-in identity, or nil for a guest
func (s *State) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// IsAuthenticated reports whether a user is signed in
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Token returns the bearer token of the current identity
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Token
}

// Loading is true until Restore has finished its single attempt
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Restore loads the persisted identity. Any failure leaves the user a guest;
// only the first call does any work.
func (s *State) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		identity := s.readPersisted(ctx)

		s.mu.Lock()
		prev := s.identity
		if identity != nil && prev == nil {
			s.identity = identity
		}
		s.loading = false
		s.mu.Unlock()

		if identity != nil && prev == nil {
			s.logger.WithField("user_id", identity.ID).Info("Session restored")
			s.notify(ctx, Change{Current: identity})
		}
	})
}

// Login authenticates with phone and password and persists the identity
func (s *State) Login(ctx context.Context, phone, password string) (*Identity, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, &AuthError{Message: "phone and password are required"}
	}

	var resp authResponse
	if err := s.api.Post(ctx, "/api/auth/login", &LoginRequest{Phone: phone, Password: password}, &resp); err != nil {
		if rej, ok := api.AsRejection(err); ok {
			return nil, &AuthError{Message: rej.Message, Err: err}
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.establish(ctx, resp)
}

// Signup creates an account and signs it in
func (s *State) Signup(ctx context.Context, req SignupRequest) (*Identity, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if err := req.Validate(); err != nil {
		return nil, &AuthError{Message: err.Error(), Err: err}
	}

	var resp authResponse
	if err := s.api.Post(ctx, "/api/auth/signup", &req, &resp); err != nil {
		if rej, ok := api.AsRejection(err); ok {
			return nil, &AuthError{Message: rej.Message, Err: err}
		}
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	return s.establish(ctx, resp)
}

// Logout forgets the identity locally. There is no server call.
func (s *State) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.WithError(err).Warn("Failed to remove persisted session")
	}

	s.mu.Lock()
	prev := s.identity
	s.identity = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.WithField("user_id", prev.ID).Info("Logged out")
		s.notify(ctx, Change{Previous: prev})
	}
}

func (s *State) establish(ctx context.Context, resp authResponse) (*Identity, error) {
	identity := resp.User
	if identity.ID == "" {
		return nil, errors.New("auth response did not include a user")
	}
	if resp.Token != "" {
		identity.Token = resp.Token
	}
	if identity.Role == "" {
		identity.Role = RoleUser
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.persist(ctx, &identity)

	s.mu.Lock()
	prev := s.identity
	s.identity = &identity
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"user_id": identity.ID,
		"role":    identity.Role,
	}).Info("Signed in")

	s.notify(ctx, Change{Previous: prev, Current: identity.Clone()})
	return identity.Clone(), nil
}

func (s *State) persist(ctx context.Context, identity *Identity) {
	data, err := json.Marshal(identity)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode session")
		return
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		s.logger.WithError(err).Warn("Failed to persist session")
	}
}

func (s *State) readPersisted(ctx context.Context) *Identity {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read persisted session")
		return nil
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.ID == "" {
		s.logger.WithError(err).Warn("Ignoring unreadable persisted session")
		return nil
	}

	if identity.Token != "" && auth.TokenExpired(identity.Token, s.now()) {
		s.logger.WithField("user_id", identity.ID).Info("Persisted session expired")
		if err := s.store.Delete(ctx, s.key); err != nil {
			s.logger.WithError(err).Warn("Failed to remove expired session")
		}
		return nil
	}

	return &identity
}

func (s *State) notify(ctx context.Context, change Change) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, Change{Previous: change.Previous.Clone(), Current: change.Current.Clone()})
	}
}
