package store

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

type seedFile struct {
	Courses []SeedCourse `yaml:"courses"`
}

// LoadSeedFile reads a YAML catalog of the form
//
//	courses:
//	  - title: Go Fundamentals
//	    instructor: Ada
//	    category: Computer Science
//
// and returns its courses. An empty list is allowed and seeds an empty catalog.
func LoadSeedFile(path string) ([]SeedCourse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i, c := range sf.Courses {
		if c.Title == "" {
			return nil, fmt.Errorf("seed file %s: course %d has no title", path, i)
		}
	}

	if sf.Courses == nil {
		return []SeedCourse{}, nil
	}
	return sf.Courses, nil
}
