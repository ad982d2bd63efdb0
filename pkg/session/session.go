// Package session tracks who is signed in.
//
// A Session mirrors the persisted session pointer in memory. It is an
// explicit object: build one with New and hand it to whatever needs to know
// the current user.
package session

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/store"
	"github.com/edudash/edudash/pkg/types"
)

// Listener receives the new user after every login or logout; nil means signed out
type Listener func(user *types.User)

type Session struct {
	mu    sync.RWMutex
	users store.UserStoreInterface
	user  *types.User
	newID func() string

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

type Option func(*Session)

func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New restores the signed in user from users
func New(ctx context.Context, users store.UserStoreInterface, opts ...Option) (*Session, error) {
	s := &Session{
		users:     users,
		newID:     uuid.NewString,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	current, err := users.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	s.user = current

	if current != nil {
		logger.Logger(ctx).WithField("userId", current.ID).Info("session restored")
	}
	return s, nil
}

// Login signs in a new user with a freshly generated id.
// email and name are stored as given; checking them is up to the caller.
// The remembered profile image, if any, is attached to the user.
func (s *Session) Login(ctx context.Context, email, name string) error {
	image, err := s.users.ProfileImage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile image: %w", err)
	}

	user := &types.User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		ProfileImage: image,
	}

	s.mu.Lock()
	if err := s.users.SetCurrent(ctx, user); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist login: %w", err)
	}
	s.user = user
	s.mu.Unlock()

	logger.Logger(ctx).WithFields(logrus.Fields{
		"userId": user.ID,
		"email":  user.Email,
	}).Info("user logged in")

	s.notify(user)
	return nil
}

// LoginWith signs in the identity returned by provider
func (s *Session) LoginWith(ctx context.Context, provider IdentityProvider) error {
	identity, err := provider.Identify(ctx)
	if err != nil {
		return fmt.Errorf("identity provider failed: %w", err)
	}
	return s.Login(ctx, identity.Email, identity.Name)
}

// Logout clears the session pointer. The user stays in the registry.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.users.SetCurrent(ctx, nil); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist logout: %w", err)
	}
	previous := s.user
	s.user = nil
	s.mu.Unlock()

	if previous != nil {
		logger.Logger(ctx).WithField("userId", previous.ID).Info("user logged out")
	}

	s.notify(nil)
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the signed in user, or nil
func (s *Session) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Subscribe registers l for future changes and returns a func that removes it
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// notify calls listeners in subscription order with no lock held
func (s *Session) notify(user *types.User) {
	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		if user == nil {
			l(nil)
			continue
		}
		u := *user
		l(&u)
	}
}
