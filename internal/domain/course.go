package domain

import (
	"context"
	"time"
)

// Course groups quizzes and learning targets. CourseID is optional on
// submissions; targets of course-less quizzes live under an empty course
// scope.
type Course struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCourse creates a new Course instance
func NewCourse(name, description string, now time.Time) *Course {
	return &Course{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the course
func (c *Course) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "name is required")
	}
	return nil
}

// CourseRepository defines the interface for course persistence.
// GetCourseByID returns (nil, nil) when the course does not exist.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *Course) error
	GetCourseByID(ctx context.Context, id string) (*Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	// DeleteCourse removes the course row itself. Cascade deletion of
	// quizzes, questions and learning targets is orchestrated by the
	// service inside one transaction.
	DeleteCourse(ctx context.Context, id string) error
}
