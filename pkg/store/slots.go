package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/telemetry"
)

// Slot names. Each slot holds one JSON document under "<prefix>:<slot>".
const (
	SlotCourses          = "courses"
	SlotEnrollments      = "enrollments"
	SlotUsers            = "users"
	SlotCurrentUser      = "currentUser"
	SlotUserProfileImage = "userProfileImage"
	SlotAttendance       = "attendance"
)

// db is the slot adapter shared by all sub-stores.
// It never caches: every read goes to the cache and every write replaces
// the whole slot.
// NOTE: no locking - concurrent writers race on read-modify-write
type db struct {
	cache   cache.Cache
	prefix  string
	seed    []SeedCourse
	now     func() time.Time
	newID   func() string
	metrics *telemetry.StoreMetrics
}

// slotKey returns the prefixed cache key for a slot
func (d *db) slotKey(slot string) string {
	return d.prefix + ":" + slot
}

// read returns the raw JSON stored in slot.
// present is false when the slot does not exist at all.
func (d *db) read(ctx context.Context, slot string) (raw []byte, present bool, err error) {
	val, err := d.cache.Get(ctx, d.slotKey(slot))
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s slot: %w", slot, err)
	}

	switch v := val.(type) {
	case string:
		return []byte(v), true, nil
	case []byte:
		return v, true, nil
	default:
		return nil, false, fmt.Errorf("unexpected value type %T in %s slot", val, slot)
	}
}

// write serializes value and replaces the whole slot
func (d *db) write(ctx context.Context, slot string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s slot: %w", slot, err)
	}

	if err := d.cache.Set(ctx, d.slotKey(slot), string(data), cache.NoExpiration); err != nil {
		return fmt.Errorf("failed to write %s slot: %w", slot, err)
	}
	return nil
}

// readList decodes a JSON array slot. Absent and null slots decode to an
// empty, non-nil slice.
func readList[T any](ctx context.Context, d *db, slot string) ([]T, error) {
	raw, present, err := d.read(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !present {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s slot: %w", slot, err)
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

// observe records a finished operation; errp points at the named error result
func (d *db) observe(ctx context.Context, operation string, start time.Time, errp *error) {
	d.metrics.RecordOperation(ctx, operation, start, *errp)
}
