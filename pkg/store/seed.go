package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/types"
)

// SeedCourse is one entry of the initial catalog
type SeedCourse = types.NewCourse

const placeholderImage = "/placeholder.svg"

// DefaultCourses returns the built-in catalog written on first access
func DefaultCourses() []SeedCourse {
	return []SeedCourse{
		{
			Title:       "Introduction to Machine Learning",
			Description: "Learn the fundamentals of machine learning algorithms and applications",
			Image:       placeholderImage,
			Instructor:  "Dr. Sarah Chen",
			Duration:    "8 weeks",
			Enrolled:    1240,
			Rating:      4.8,
			Category:    "Computer Science",
		},
		{
			Title:       "Advanced Web Development",
			Description: "Master modern web technologies like React, Node.js and GraphQL",
			Image:       placeholderImage,
			Instructor:  "Mark Johnson",
			Duration:    "10 weeks",
			Enrolled:    890,
			Rating:      4.7,
			Category:    "Web Development",
		},
		{
			Title:       "Data Science Fundamentals",
			Description: "Explore data analysis, visualization and statistical methods",
			Image:       placeholderImage,
			Instructor:  "Dr. Michael Rodriguez",
			Duration:    "12 weeks",
			Enrolled:    1650,
			Rating:      4.9,
			Category:    "Data Science",
		},
		{
			Title:       "Mobile App Development with Flutter",
			Description: "Build cross-platform mobile applications with Flutter framework",
			Image:       placeholderImage,
			Instructor:  "Jessica Williams",
			Duration:    "8 weeks",
			Enrolled:    760,
			Rating:      4.6,
			Category:    "Mobile Development",
		},
		{
			Title:       "Artificial Intelligence Ethics",
			Description: "Explore ethical considerations and implications of AI systems",
			Image:       placeholderImage,
			Instructor:  "Dr. Robert Chen",
			Duration:    "6 weeks",
			Enrolled:    520,
			Rating:      4.5,
			Category:    "Computer Science",
		},
		{
			Title:       "Blockchain Technology",
			Description: "Understand blockchain principles and smart contract development",
			Image:       placeholderImage,
			Instructor:  "Michael Anderson",
			Duration:    "8 weeks",
			Enrolled:    680,
			Rating:      4.4,
			Category:    "Blockchain",
		},
	}
}

// ensureInitialized writes default content into every absent slot.
// Only presence is checked, a slot holding malformed JSON is left alone.
func (d *db) ensureInitialized(ctx context.Context) error {
	defaults := []struct {
		slot  string
		value func() interface{}
	}{
		{SlotCourses, func() interface{} { return d.seedCourses() }},
		{SlotEnrollments, func() interface{} { return []types.Enrollment{} }},
		{SlotUsers, func() interface{} { return []types.User{} }},
		{SlotCurrentUser, func() interface{} { return nil }},
	}

	for _, def := range defaults {
		_, present, err := d.read(ctx, def.slot)
		if err != nil {
			return err
		}
		if present {
			continue
		}
		if err := d.write(ctx, def.slot, def.value()); err != nil {
			return err
		}
		logger.Logger(ctx).WithFields(logrus.Fields{
			"slot":   def.slot,
			"prefix": d.prefix,
		}).Info("initialized missing slot")
	}
	return nil
}

func (d *db) seedCourses() []types.Course {
	seed := d.seed
	if seed == nil {
		seed = DefaultCourses()
	}

	courses := make([]types.Course, 0, len(seed))
	for _, sc := range seed {
		courses = append(courses, d.newCourse(sc))
	}
	return courses
}

// newCourse stamps a fresh id and creation time onto nc
func (d *db) newCourse(nc types.NewCourse) types.Course {
	return types.Course{
		ID:          d.newID(),
		Title:       nc.Title,
		Description: nc.Description,
		Image:       nc.Image,
		Instructor:  nc.Instructor,
		Duration:    nc.Duration,
		Enrolled:    nc.Enrolled,
		Rating:      nc.Rating,
		Category:    nc.Category,
		CreatedAt:   d.now(),
	}
}
