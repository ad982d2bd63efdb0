package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/types"
)

// EnrollmentStore handles operations over the "enrollments" slot
// Value: JSON array of enrollments; at most one per (userId, courseId), checked on create
// NOTE: This store does NOT handle locking - callers must ensure proper synchronization
type EnrollmentStore struct {
	db      *db
	courses *CourseStore
}

// newEnrollmentStore creates a new EnrollmentStore instance
func newEnrollmentStore(d *db, courses *CourseStore) *EnrollmentStore {
	return &EnrollmentStore{
		db:      d,
		courses: courses,
	}
}

func (s *EnrollmentStore) list(ctx context.Context) ([]types.Enrollment, error) {
	if err := s.db.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return readList[types.Enrollment](ctx, s.db, SlotEnrollments)
}

// indexOf returns the position of the (user, course) enrollment or -1
func indexOf(enrollments []types.Enrollment, userID, courseID string) int {
	for i := range enrollments {
		if enrollments[i].UserID == userID && enrollments[i].CourseID == courseID {
			return i
		}
	}
	return -1
}

// List returns every enrollment in insertion order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *EnrollmentStore) List(ctx context.Context) (enrollments []types.Enrollment, err error) {
	defer s.db.observe(ctx, "enrollment.list", time.Now(), &err)
	return s.list(ctx)
}

// ListByUser returns the enrollments of userID, keeping store order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *EnrollmentStore) ListByUser(ctx context.Context, userID string) (result []types.Enrollment, err error) {
	defer s.db.observe(ctx, "enrollment.list_by_user", time.Now(), &err)

	enrollments, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	result = make([]types.Enrollment, 0)
	for _, e := range enrollments {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

// Get returns the enrollment of userID in courseID, or nil
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *EnrollmentStore) Get(ctx context.Context, userID, courseID string) (enrollment *types.Enrollment, err error) {
	defer s.db.observe(ctx, "enrollment.get", time.Now(), &err)

	enrollments, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(enrollments, userID, courseID); idx != -1 {
		return &enrollments[idx], nil
	}
	return nil, nil
}

// Create enrolls userID in courseID
// An existing enrollment for the pair is returned as is and the course
// counter is left alone. Otherwise the enrollment is written first and the
// course's enrolled counter is incremented in a second write; the two are
// not atomic. Unknown courses are enrolled without touching any counter.
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *EnrollmentStore) Create(ctx context.Context, userID, courseID string) (enrollment types.Enrollment, err error) {
	defer s.db.observe(ctx, "enrollment.create", time.Now(), &err)

	enrollments, err := s.list(ctx)
	if err != nil {
		return types.Enrollment{}, err
	}

	if idx := indexOf(enrollments, userID, courseID); idx != -1 {
		return enrollments[idx], nil
	}

	now := s.db.now()
	enrollment = types.Enrollment{
		ID:             s.db.newID(),
		UserID:         userID,
		CourseID:       courseID,
		Progress:       0,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}

	if err := s.db.write(ctx, SlotEnrollments, append(enrollments, enrollment)); err != nil {
		return types.Enrollment{}, err
	}

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"enrollmentId": enrollment.ID,
		"userId":       userID,
		"courseId":     courseID,
	})
	log.Debug("enrollment created")

	course, err := s.courses.get(ctx, courseID)
	if err != nil {
		return enrollment, fmt.Errorf("enrollment %s created but course lookup failed: %w", enrollment.ID, err)
	}
	if course == nil {
		log.Warn("enrolled in unknown course, enrolled counter not updated")
		return enrollment, nil
	}

	enrolled := course.Enrolled + 1
	if _, err := s.courses.update(ctx, courseID, types.CourseUpdate{Enrolled: &enrolled}); err != nil {
		return enrollment, fmt.Errorf("enrollment %s created but course counter update failed: %w", enrollment.ID, err)
	}
	return enrollment, nil
}

// UpdateProgress sets the progress of an enrollment and refreshes lastAccessedAt
// progress is stored as given, no 0-100 range check is applied
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *EnrollmentStore) UpdateProgress(ctx context.Context, userID, courseID string, progress int) (enrollment *types.Enrollment, err error) {
	defer s.db.observe(ctx, "enrollment.update_progress", time.Now(), &err)

	enrollments, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(enrollments, userID, courseID)
	if idx == -1 {
		return nil, nil
	}

	enrollments[idx].Progress = progress
	enrollments[idx].LastAccessedAt = s.db.now()
	if err := s.db.write(ctx, SlotEnrollments, enrollments); err != nil {
		return nil, err
	}

	updated := enrollments[idx]
	return &updated, nil
}
