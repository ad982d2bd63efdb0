package types

import "time"

type Enrollment struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	CourseID       string    `json:"courseId"`
	Progress       int       `json:"progress"`
	EnrolledAt     time.Time `json:"enrolledAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}
