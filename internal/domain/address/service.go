// internal/domain/address/service.go
package address

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
)

// ErrAddressNotFound is returned when an id is not in the loaded list
var ErrAddressNotFound = errors.New("address not found")

// State holds the address list of the signed-in user and its default entry
type State struct {
	api     api.Requester
	session session.Reader
	logger  *logrus.Logger

	mu         sync.RWMutex
	addresses  []Address
	defaultAdr *Address
	issued     uint64
	applied    uint64
}

// NewState creates an address state
func NewState(requester api.Requester, sess session.Reader, logger *logrus.Logger) *State {
	return &State{
		api:     requester,
		session: sess,
		logger:  logger,
	}
}

// HandleSessionChange recomputes the default for the new identity
func (s *State) HandleSessionChange(ctx context.Context, change session.Change) {
	if change.Current == nil {
		s.set(s.nextSeq(), nil)
		return
	}
	if change.LoggedIn() {
		s.Refresh(ctx)
	}
}

// Refresh reloads the list. Failures leave no addresses and no default.
// A response is dropped when a newer refresh or a logout was issued after it,
// or when the signed-in user changed while it was in flight.
func (s *State) Refresh(ctx context.Context) {
	seq := s.nextSeq()

	user := s.session.Current()
	if user == nil {
		s.set(seq, nil)
		return
	}

	var addresses []Address
	err := s.api.Get(ctx, "/addresses/"+url.PathEscape(user.ID), nil, &addresses)

	if current := s.session.Current(); current == nil || current.ID != user.ID {
		s.logger.WithField("user_id", user.ID).Debug("Dropping addresses for a previous session")
		return
	}
	if err != nil {
		s.logger.WithField("user_id", user.ID).WithError(err).Error("Failed to fetch addresses")
		s.set(seq, nil)
		return
	}

	s.set(seq, addresses)
}

// Default returns the default address, or nil if there is none
func (s *State) Default() *Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defaultAdr == nil {
		return nil
	}
	a := *s.defaultAdr
	return &a
}

// Addresses returns a copy of the loaded list
func (s *State) Addresses() []Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Address, len(s.addresses))
	copy(out, s.addresses)
	return out
}

// Create adds an address for the signed-in user
func (s *State) Create(ctx context.Context, req CreateAddressRequest) (*Address, error) {
	user := s.session.Current()
	if user == nil {
		return nil, session.ErrNotAuthenticated
	}
	req.UserID = user.ID
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created Address
	if err := s.api.Post(ctx, "/addresses", &req, &created); err != nil {
		return nil, s.wrap("create", err)
	}

	s.Refresh(ctx)
	return &created, nil
}

// Update changes an existing address
func (s *State) Update(ctx context.Context, id string, req UpdateAddressRequest) (*Address, error) {
	if s.session.Current() == nil {
		return nil, session.ErrNotAuthenticated
	}

	var updated Address
	if err := s.api.Put(ctx, "/addresses/"+url.PathEscape(id), &req, &updated); err != nil {
		return nil, s.wrap("update", err)
	}

	s.Refresh(ctx)
	return &updated, nil
}

// SetDefault marks an address as the default. The server unsets the others.
func (s *State) SetDefault(ctx context.Context, id string) error {
	isDefault := true
	_, err := s.Update(ctx, id, UpdateAddressRequest{IsDefault: &isDefault})
	return err
}

// Delete removes an address
func (s *State) Delete(ctx context.Context, id string) error {
	if s.session.Current() == nil {
		return session.ErrNotAuthenticated
	}

	if err := s.api.Delete(ctx, "/addresses/"+url.PathEscape(id), nil, nil); err != nil {
		return s.wrap("delete", err)
	}

	s.Refresh(ctx)
	return nil
}

// Find looks up a loaded address by id
func (s *State) Find(id string) (*Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			a := s.addresses[i]
			return &a, nil
		}
	}
	return nil, ErrAddressNotFound
}

func (s *State) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// set installs addresses if seq is newer than the list currently held
func (s *State) set(seq uint64, addresses []Address) bool {
	var def *Address
	for i := range addresses {
		if addresses[i].IsDefault {
			a := addresses[i]
			def = &a
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	s.addresses = addresses
	s.defaultAdr = def
	return true
}

func (s *State) wrap(op string, err error) error {
	if _, ok := api.AsRejection(err); ok {
		return err
	}
	s.logger.WithField("op", op).WithError(err).Error("Address request failed")
	return fmt.Errorf("failed to %s address: %w", op, err)
}
