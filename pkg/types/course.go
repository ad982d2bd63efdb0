package types

import "time"

// Course is a catalog entry.
// Enrolled is a denormalized counter maintained by the enrollment store.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Instructor  string    `json:"instructor"`
	Duration    string    `json:"duration"`
	Enrolled    int       `json:"enrolled"`
	Rating      float64   `json:"rating"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewCourse carries the caller supplied fields of a course; id and
// createdAt are generated on insert
type NewCourse struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Image       string  `json:"image" yaml:"image"`
	Instructor  string  `json:"instructor" yaml:"instructor"`
	Duration    string  `json:"duration" yaml:"duration"`
	Enrolled    int     `json:"enrolled" yaml:"enrolled"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Category    string  `json:"category" yaml:"category"`
}

// CourseUpdate is a partial update; nil fields are left untouched
type CourseUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Instructor  *string  `json:"instructor,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Enrolled    *int     `json:"enrolled,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// Apply merges the non-nil fields of u into c
func (u CourseUpdate) Apply(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Image != nil {
		c.Image = *u.Image
	}
	if u.Instructor != nil {
		c.Instructor = *u.Instructor
	}
	if u.Duration != nil {
		c.Duration = *u.Duration
	}
	if u.Enrolled != nil {
		c.Enrolled = *u.Enrolled
	}
	if u.Rating != nil {
		c.Rating = *u.Rating
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
}

// CourseFilter narrows a catalog listing.
// An empty Category or "all" matches every category.
type CourseFilter struct {
	Query    string
	Category string
}
