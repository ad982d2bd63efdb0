package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/telemetry"
)

// DefaultKeyPrefix namespaces slot keys when no prefix is configured
const DefaultKeyPrefix = "edudash"

// DeletePolicy decides what happens to enrollments when their course is deleted
type DeletePolicy string

const (
	// DeletePolicyOrphan leaves enrollments in place, referencing a missing course
	DeletePolicyOrphan DeletePolicy = "orphan"
	// DeletePolicyCascade removes the course's enrollments after the course
	DeletePolicyCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy converts a configuration value; "" means orphan
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", DeletePolicyOrphan:
		return DeletePolicyOrphan, nil
	case DeletePolicyCascade:
		return DeletePolicyCascade, nil
	default:
		return "", fmt.Errorf("unknown course delete policy: %q", s)
	}
}

// Store provides the course, enrollment, user and attendance repositories over one cache
// It encapsulates key prefixing and JSON serialization
// NOTE: This store does NOT handle locking - callers are responsible for proper synchronization
type Store struct {
	Course     CourseStoreInterface
	Enrollment EnrollmentStoreInterface
	User       UserStoreInterface
	Attendance AttendanceStoreInterface

	db *db
}

type options struct {
	keyPrefix    string
	deletePolicy DeletePolicy
	seed         []SeedCourse
	now          func() time.Time
	newID        func() string
	metrics      *telemetry.StoreMetrics
}

type Option func(*options)

// WithKeyPrefix isolates this store from others sharing the cache
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.keyPrefix = prefix }
}

func WithDeletePolicy(p DeletePolicy) Option {
	return func(o *options) { o.deletePolicy = p }
}

// WithSeed replaces the default catalog; an empty, non-nil slice seeds nothing
func WithSeed(seed []SeedCourse) Option {
	return func(o *options) { o.seed = seed }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func WithMetrics(m *telemetry.StoreMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a new Store instance with all sub-stores initialized
func New(c cache.Cache, opts ...Option) *Store {
	o := options{
		keyPrefix:    DefaultKeyPrefix,
		deletePolicy: DeletePolicyOrphan,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	d := &db{
		cache:   c,
		prefix:  o.keyPrefix,
		seed:    o.seed,
		now:     o.now,
		newID:   o.newID,
		metrics: o.metrics,
	}

	courses := newCourseStore(d, o.deletePolicy)
	return &Store{
		Course:     courses,
		Enrollment: newEnrollmentStore(d, courses),
		User:       newUserStore(d),
		Attendance: newAttendanceStore(d),
		db:         d,
	}
}

// EnsureInitialized seeds every absent slot. Repositories do this lazily on
// each read; calling it at startup only makes the first write visible early.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	return s.db.ensureInitialized(ctx)
}

// Compile-time interface compliance checks
var (
	_ CourseStoreInterface     = (*CourseStore)(nil)
	_ EnrollmentStoreInterface = (*EnrollmentStore)(nil)
	_ UserStoreInterface       = (*UserStore)(nil)
	_ AttendanceStoreInterface = (*AttendanceStore)(nil)
)
