package types

import (
	"math"
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord is one class day of one user in one course.
// Date is midnight UTC of the class day.
type AttendanceRecord struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	CourseID string           `json:"courseId"`
	Date     time.Time        `json:"date"`
	Status   AttendanceStatus `json:"status"`
}

// NewAttendance is the input of AttendanceStore.Record
type NewAttendance struct {
	UserID   string
	CourseID string
	Date     time.Time
	Status   AttendanceStatus
}

// AttendanceFilter narrows attendance listings.
// An empty UserID matches every user; an empty CourseID or "all" every course.
type AttendanceFilter struct {
	UserID   string
	CourseID string
}

func (f AttendanceFilter) Match(r AttendanceRecord) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.CourseID != "" && f.CourseID != "all" && r.CourseID != f.CourseID {
		return false
	}
	return true
}

type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
	// Rate is the rounded percentage of present or late records, 0 without records
	Rate int `json:"attendanceRate"`
}

// SummarizeAttendance counts records per status
func SummarizeAttendance(records []AttendanceRecord) AttendanceStats {
	stats := AttendanceStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case AttendancePresent:
			stats.Present++
		case AttendanceLate:
			stats.Late++
		case AttendanceAbsent:
			stats.Absent++
		case AttendanceExcused:
			stats.Excused++
		}
	}
	if stats.Total > 0 {
		stats.Rate = int(math.Round(float64(stats.Present+stats.Late) / float64(stats.Total) * 100))
	}
	return stats
}

// AttendanceDay truncates t to midnight UTC of its calendar day in t's location
func AttendanceDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
