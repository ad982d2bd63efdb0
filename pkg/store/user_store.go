package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/types"
)

// UserStore handles the "users" registry and the "currentUser" session pointer
// "currentUser" holds a single user or JSON null
// NOTE: This store does NOT handle locking - callers must ensure proper synchronization
type UserStore struct {
	db *db
}

// newUserStore creates a new UserStore instance
func newUserStore(d *db) *UserStore {
	return &UserStore{
		db: d,
	}
}

func (s *UserStore) list(ctx context.Context) ([]types.User, error) {
	if err := s.db.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return readList[types.User](ctx, s.db, SlotUsers)
}

// Current returns the signed in user, or nil
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) Current(ctx context.Context) (user *types.User, err error) {
	defer s.db.observe(ctx, "user.current", time.Now(), &err)

	if err := s.db.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	raw, present, err := s.db.read(ctx, SlotCurrentUser)
	if err != nil || !present {
		return nil, err
	}

	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s slot: %w", SlotCurrentUser, err)
	}
	return user, nil
}

// SetCurrent replaces the session pointer, nil signs out
// A non-nil user is appended to the registry unless a user with the same id
// is already registered; an existing registry entry is never refreshed
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) SetCurrent(ctx context.Context, user *types.User) (err error) {
	defer s.db.observe(ctx, "user.set_current", time.Now(), &err)

	if err := s.db.write(ctx, SlotCurrentUser, user); err != nil {
		return err
	}
	if user == nil {
		logger.Logger(ctx).Debug("session pointer cleared")
		return nil
	}

	users, err := readList[types.User](ctx, s.db, SlotUsers)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == user.ID {
			return nil
		}
	}

	if err := s.db.write(ctx, SlotUsers, append(users, *user)); err != nil {
		return err
	}
	logger.Logger(ctx).WithField("userId", user.ID).Debug("user registered")
	return nil
}

// Get returns the registered user with the given id, or nil
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) Get(ctx context.Context, id string) (user *types.User, err error) {
	defer s.db.observe(ctx, "user.get", time.Now(), &err)

	users, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

// List returns the user registry in insertion order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) List(ctx context.Context) (users []types.User, err error) {
	defer s.db.observe(ctx, "user.list", time.Now(), &err)
	return s.list(ctx)
}

// ProfileImage returns the remembered profile image, or "" if none is set
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) ProfileImage(ctx context.Context) (image string, err error) {
	defer s.db.observe(ctx, "user.profile_image", time.Now(), &err)

	raw, _, err := s.db.read(ctx, SlotUserProfileImage)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetProfileImage remembers image (a data URI or URL) for future sign-ins
// The slot holds the raw string, not JSON. An empty image removes the slot
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *UserStore) SetProfileImage(ctx context.Context, image string) (err error) {
	defer s.db.observe(ctx, "user.set_profile_image", time.Now(), &err)

	if image == "" {
		if err := s.db.cache.Delete(ctx, s.db.slotKey(SlotUserProfileImage)); err != nil {
			return fmt.Errorf("failed to delete %s slot: %w", SlotUserProfileImage, err)
		}
		return nil
	}
	if err := s.db.cache.Set(ctx, s.db.slotKey(SlotUserProfileImage), image, cache.NoExpiration); err != nil {
		return fmt.Errorf("failed to write %s slot: %w", SlotUserProfileImage, err)
	}
	return nil
}
