package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/types"
)

// ErrInvalidAttendanceStatus is returned by Record for an unknown status
var ErrInvalidAttendanceStatus = errors.New("invalid attendance status")

// AttendanceStore handles the "attendance" slot
// Value: JSON array of records; at most one per (userId, courseId, day)
// The slot is created by the first Record, an absent slot reads as empty
// NOTE: This store does NOT handle locking - callers must ensure proper synchronization
type AttendanceStore struct {
	db *db
}

// newAttendanceStore creates a new AttendanceStore instance
func newAttendanceStore(d *db) *AttendanceStore {
	return &AttendanceStore{
		db: d,
	}
}

// Record stores the status of a user in a course on the day of in.Date.
// Recording the same day again replaces the status and keeps the record id.
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *AttendanceStore) Record(ctx context.Context, in types.NewAttendance) (record types.AttendanceRecord, err error) {
	defer s.db.observe(ctx, "attendance.record", time.Now(), &err)

	if !in.Status.Valid() {
		return types.AttendanceRecord{}, fmt.Errorf("%w: %q", ErrInvalidAttendanceStatus, in.Status)
	}

	records, err := readList[types.AttendanceRecord](ctx, s.db, SlotAttendance)
	if err != nil {
		return types.AttendanceRecord{}, err
	}

	day := types.AttendanceDay(in.Date)
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"userId":   in.UserID,
		"courseId": in.CourseID,
		"date":     day.Format(time.DateOnly),
		"status":   in.Status,
	})

	for i := range records {
		r := &records[i]
		if r.UserID == in.UserID && r.CourseID == in.CourseID && r.Date.Equal(day) {
			r.Status = in.Status
			if err := s.db.write(ctx, SlotAttendance, records); err != nil {
				return types.AttendanceRecord{}, err
			}
			log.Debug("attendance updated")
			return *r, nil
		}
	}

	record = types.AttendanceRecord{
		ID:       s.db.newID(),
		UserID:   in.UserID,
		CourseID: in.CourseID,
		Date:     day,
		Status:   in.Status,
	}
	if err := s.db.write(ctx, SlotAttendance, append(records, record)); err != nil {
		return types.AttendanceRecord{}, err
	}
	log.Debug("attendance recorded")
	return record, nil
}

// List returns the records matching filter in store order
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *AttendanceStore) List(ctx context.Context, filter types.AttendanceFilter) (result []types.AttendanceRecord, err error) {
	defer s.db.observe(ctx, "attendance.list", time.Now(), &err)
	return s.list(ctx, filter)
}

// Stats summarizes the records matching filter
// NOTE: Caller must hold appropriate lock if concurrent access is possible
func (s *AttendanceStore) Stats(ctx context.Context, filter types.AttendanceFilter) (stats types.AttendanceStats, err error) {
	defer s.db.observe(ctx, "attendance.stats", time.Now(), &err)

	records, err := s.list(ctx, filter)
	if err != nil {
		return types.AttendanceStats{}, err
	}
	return types.SummarizeAttendance(records), nil
}

func (s *AttendanceStore) list(ctx context.Context, filter types.AttendanceFilter) ([]types.AttendanceRecord, error) {
	records, err := readList[types.AttendanceRecord](ctx, s.db, SlotAttendance)
	if err != nil {
		return nil, err
	}

	result := make([]types.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if filter.Match(r) {
			result = append(result, r)
		}
	}
	return result, nil
}
