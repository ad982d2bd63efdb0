package store

import (
	"context"
	"time"

	"github.com/edudash/edudash/pkg/types"
)

// AuditReport lists referential problems found in the persisted slots
type AuditReport struct {
	CheckedAt time.Time
	// OrphanedEnrollments reference a course that no longer exists,
	// the expected outcome of deleting a course under DeletePolicyOrphan
	OrphanedEnrollments []types.Enrollment
	// UnregisteredEnrollments reference a user missing from the registry
	UnregisteredEnrollments []types.Enrollment
}

// Clean reports whether the audit found nothing
func (r *AuditReport) Clean() bool {
	return len(r.OrphanedEnrollments) == 0 && len(r.UnregisteredEnrollments) == 0
}

// Audit scans enrollments for dangling course and user references.
// It only reads; nothing is repaired.
func (s *Store) Audit(ctx context.Context) (report *AuditReport, err error) {
	defer s.db.observe(ctx, "store.audit", time.Now(), &err)

	if err := s.db.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	courses, err := readList[types.Course](ctx, s.db, SlotCourses)
	if err != nil {
		return nil, err
	}
	users, err := readList[types.User](ctx, s.db, SlotUsers)
	if err != nil {
		return nil, err
	}
	enrollments, err := readList[types.Enrollment](ctx, s.db, SlotEnrollments)
	if err != nil {
		return nil, err
	}

	courseIDs := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = struct{}{}
	}
	userIDs := make(map[string]struct{}, len(users))
	for _, u := range users {
		userIDs[u.ID] = struct{}{}
	}

	report = &AuditReport{
		CheckedAt:               s.db.now(),
		OrphanedEnrollments:     []types.Enrollment{},
		UnregisteredEnrollments: []types.Enrollment{},
	}
	for _, e := range enrollments {
		if _, ok := courseIDs[e.CourseID]; !ok {
			report.OrphanedEnrollments = append(report.OrphanedEnrollments, e)
		}
		if _, ok := userIDs[e.UserID]; !ok {
			report.UnregisteredEnrollments = append(report.UnregisteredEnrollments, e)
		}
	}
	return report, nil
}
