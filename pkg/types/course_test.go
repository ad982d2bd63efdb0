package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseUpdate_Apply(t *testing.T) {
	title := "Go in Practice"
	enrolled := 0
	rating := 4.2

	course := Course{ID: "c1", Title: "old", Category: "Web Development", Enrolled: 12, Rating: 3}
	CourseUpdate{Title: &title, Enrolled: &enrolled, Rating: &rating}.Apply(&course)

	assert.Equal(t, "c1", course.ID)
	assert.Equal(t, "Go in Practice", course.Title)
	assert.Equal(t, "Web Development", course.Category, "nil fields are untouched")
	assert.Equal(t, 0, course.Enrolled, "zero values are applied when set")
	assert.Equal(t, 4.2, course.Rating)
}
