package store

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/types"
)

// CourseStore handles CRUD over the "courses" slot
// Value: JSON array of courses in insertion order
// NOTE: This store does NOT handle locking - callers must ensure proper synchronization
type CourseStore struct {
	db           *db
	deletePolicy DeletePolicy
}

// newCourseStore creates a new CourseStore instance
func newCourseStore(d *db, policy DeletePolicy) *CourseStore {
	return &CourseStore{
		db:           d,
		deletePolicy: policy,
	}
}

// list reads the whole slot after making sure the schema exists
func (s *CourseStore) list(ctx context.Context) ([]types.Course, error) {
	if err := s.db.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return readList[types.Course](ctx, s.db, SlotCourses)
}

func (s *CourseStore) get(ctx context.Context, id string) (*types.Course, error) {
	courses, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, nil
}

func (s *CourseStore) update(ctx context.Context, id string, update types.CourseUpdate) (*types.Course, error) {
	courses, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range courses {
		if courses[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	update.Apply(&courses[idx])
	if err := s.db.write(ctx, SlotCourses, courses); err != nil {
		return nil, err
	}

	updated := courses[idx]
	return &updated, nil
}

// List returns every course in insertion order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) List(ctx context.Context) (courses []types.Course, err error) {
	defer s.db.observe(ctx, "course.list", time.Now(), &err)
	return s.list(ctx)
}

// Get returns the course with the given id, or nil if there is none
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Get(ctx context.Context, id string) (course *types.Course, err error) {
	defer s.db.observe(ctx, "course.get", time.Now(), &err)
	return s.get(ctx, id)
}

// Add appends a course with a fresh id and creation time
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Add(ctx context.Context, nc types.NewCourse) (course types.Course, err error) {
	defer s.db.observe(ctx, "course.add", time.Now(), &err)

	courses, err := s.list(ctx)
	if err != nil {
		return types.Course{}, err
	}

	course = s.db.newCourse(nc)
	if err := s.db.write(ctx, SlotCourses, append(courses, course)); err != nil {
		return types.Course{}, err
	}

	logger.Logger(ctx).WithFields(logrus.Fields{
		"courseId": course.ID,
		"title":    course.Title,
	}).Debug("course added")
	return course, nil
}

// Update merges update into the course with the given id
// Returns nil if the id is unknown; this is not an error
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Update(ctx context.Context, id string, update types.CourseUpdate) (course *types.Course, err error) {
	defer s.db.observe(ctx, "course.update", time.Now(), &err)
	return s.update(ctx, id, update)
}

// Delete removes the course and reports whether it existed
// Under DeletePolicyCascade the course's enrollments are removed afterwards,
// in a separate write; a failure there leaves them orphaned
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Delete(ctx context.Context, id string) (deleted bool, err error) {
	defer s.db.observe(ctx, "course.delete", time.Now(), &err)

	courses, err := s.list(ctx)
	if err != nil {
		return false, err
	}

	remaining := make([]types.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == len(courses) {
		return false, nil
	}

	if err := s.db.write(ctx, SlotCourses, remaining); err != nil {
		return false, err
	}

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"courseId": id,
		"policy":   s.deletePolicy,
	})
	log.Debug("course deleted")

	if s.deletePolicy == DeletePolicyCascade {
		removed, err := s.removeEnrollments(ctx, id)
		if err != nil {
			return true, err
		}
		log.WithField("enrollments", removed).Debug("cascaded course delete to enrollments")
	}
	return true, nil
}

// removeEnrollments drops every enrollment referencing courseID
func (s *CourseStore) removeEnrollments(ctx context.Context, courseID string) (int, error) {
	enrollments, err := readList[types.Enrollment](ctx, s.db, SlotEnrollments)
	if err != nil {
		return 0, err
	}

	kept := make([]types.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if e.CourseID != courseID {
			kept = append(kept, e)
		}
	}

	removed := len(enrollments) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.db.write(ctx, SlotEnrollments, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Search returns the courses whose title, description or instructor contain
// filter.Query (case-insensitive) and whose category equals filter.Category
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Search(ctx context.Context, filter types.CourseFilter) (result []types.Course, err error) {
	defer s.db.observe(ctx, "course.search", time.Now(), &err)

	courses, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	anyCategory := filter.Category == "" || strings.EqualFold(filter.Category, "all")

	result = make([]types.Course, 0, len(courses))
	for _, c := range courses {
		if !anyCategory && c.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Title), query) &&
			!strings.Contains(strings.ToLower(c.Description), query) &&
			!strings.Contains(strings.ToLower(c.Instructor), query) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

// Categories returns the distinct course categories in first-seen order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *CourseStore) Categories(ctx context.Context) (categories []string, err error) {
	defer s.db.observe(ctx, "course.categories", time.Now(), &err)

	courses, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories = []string{}
	for _, c := range courses {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		categories = append(categories, c.Category)
	}
	return categories, nil
}
