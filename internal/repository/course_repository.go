package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhall/internal/domain"
	"studyhall/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxCourseRepository implements domain.CourseRepository using sqlx.
type sqlxCourseRepository struct {
	db    *sqlx.DB
	clock domain.Clock
}

// NewSQLXCourseRepository creates a new instance of sqlxCourseRepository.
func NewSQLXCourseRepository(db *sqlx.DB, clock domain.Clock) domain.CourseRepository {
	return &sqlxCourseRepository{db: db, clock: clock}
}

// CreateCourse inserts a new course.
func (r *sqlxCourseRepository) CreateCourse(ctx context.Context, course *domain.Course) error {
	now := r.clock.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	model := models.CourseFromDomain(course)
	query := `INSERT INTO courses (id, name, description, created_at, updated_at)
	          VALUES (:id, :name, :description, :created_at, :updated_at)`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by its ID.
// Returns (nil, nil) for not found.
func (r *sqlxCourseRepository) GetCourseByID(ctx context.Context, id string) (*domain.Course, error) {
	var m models.Course
	query := `SELECT id, name, description, created_at, updated_at FROM courses WHERE id = :1`

	err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	return models.CourseToDomain(&m), nil
}

// ListCourses returns all courses ordered by name.
func (r *sqlxCourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var rows []models.Course
	query := `SELECT id, name, description, created_at, updated_at FROM courses ORDER BY name`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses := make([]domain.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, *models.CourseToDomain(&rows[i]))
	}
	return courses, nil
}

// DeleteCourse removes the course row. Dependent rows are removed by the
// service inside the same transaction.
func (r *sqlxCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM courses WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}
