package store

import (
	"context"

	"github.com/edudash/edudash/pkg/types"
)

// CourseStoreInterface defines CRUD operations over the "courses" slot
// This interface enables mocking in tests and follows the dependency inversion principle
type CourseStoreInterface interface {
	// List returns every course in insertion order
	List(ctx context.Context) ([]types.Course, error)

	// Get returns the course with the given id, or nil if there is none
	Get(ctx context.Context, id string) (*types.Course, error)

	// Add stores a new course with a generated id and creation time
	Add(ctx context.Context, course types.NewCourse) (types.Course, error)

	// Update merges the non-nil fields of update into the course
	// Returns nil (and no error) if the id is unknown
	Update(ctx context.Context, id string, update types.CourseUpdate) (*types.Course, error)

	// Delete removes the course and reports whether it existed
	// Enrollments are handled according to the store's DeletePolicy
	Delete(ctx context.Context, id string) (bool, error)

	// Search filters the catalog by free text and category
	Search(ctx context.Context, filter types.CourseFilter) ([]types.Course, error)

	// Categories returns the distinct categories in first-seen order
	Categories(ctx context.Context) ([]string, error)
}

// EnrollmentStoreInterface defines operations over the "enrollments" slot
type EnrollmentStoreInterface interface {
	// List returns every enrollment in insertion order
	List(ctx context.Context) ([]types.Enrollment, error)

	// ListByUser returns the enrollments of one user, keeping store order
	ListByUser(ctx context.Context, userID string) ([]types.Enrollment, error)

	// Get returns the enrollment for the (user, course) pair, or nil
	Get(ctx context.Context, userID, courseID string) (*types.Enrollment, error)

	// Create enrolls the user in the course
	// If the pair is already enrolled the existing record is returned unchanged
	// A new enrollment increments the course's enrolled counter
	Create(ctx context.Context, userID, courseID string) (types.Enrollment, error)

	// UpdateProgress sets progress and refreshes lastAccessedAt
	// Returns nil (and no error) if the pair is not enrolled
	UpdateProgress(ctx context.Context, userID, courseID string, progress int) (*types.Enrollment, error)
}

// AttendanceStoreInterface defines operations over the "attendance" slot
type AttendanceStoreInterface interface {
	// Record stores a status for the (user, course, day) of the input
	// An existing record for the same day is updated in place
	Record(ctx context.Context, in types.NewAttendance) (types.AttendanceRecord, error)

	// List returns the matching records in store order
	List(ctx context.Context, filter types.AttendanceFilter) ([]types.AttendanceRecord, error)

	// Stats counts the matching records per status and computes the attendance rate
	Stats(ctx context.Context, filter types.AttendanceFilter) (types.AttendanceStats, error)
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/edudash/edudash/pkg/store UserStoreInterface

// UserStoreInterface defines operations over the "users" registry and the
// "currentUser" session pointer
type UserStoreInterface interface {
	// Current returns the signed in user, or nil
	Current(ctx context.Context) (*types.User, error)

	// SetCurrent replaces the session pointer; nil signs out
	// A non-nil user is appended to the registry unless its id is already there
	SetCurrent(ctx context.Context, user *types.User) error

	// Get returns the registered user with the given id, or nil
	Get(ctx context.Context, id string) (*types.User, error)

	// List returns the registry in insertion order
	List(ctx context.Context) ([]types.User, error)

	// ProfileImage returns the remembered profile image, or "" if none
	ProfileImage(ctx context.Context) (string, error)

	// SetProfileImage remembers a profile image for future sign-ins
	// An empty value forgets it
	SetProfileImage(ctx context.Context, image string) error
}
