package repository

import (
	"context"
	"fmt"

	"studyhall/internal/domain"
	"studyhall/internal/repository/models"
	"studyhall/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizResultRepository implements domain.QuizResultRepository using sqlx.
type sqlxQuizResultRepository struct {
	db    *sqlx.DB
	clock domain.Clock
}

// NewSQLXQuizResultRepository creates a new instance of sqlxQuizResultRepository.
func NewSQLXQuizResultRepository(db *sqlx.DB, clock domain.Clock) domain.QuizResultRepository {
	return &sqlxQuizResultRepository{db: db, clock: clock}
}

// CreateResult persists one scored submission outcome.
func (r *sqlxQuizResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	if result.ID == "" {
		result.ID = util.NewULID()
	}

	model := models.QuizResultFromDomain(result)
	model.CreatedAt = r.clock.Now()

	query := `INSERT INTO quiz_results
	            (id, quiz_id, user_id, course_id, score_percent, correct_count, total_questions, submitted_at, created_at)
	          VALUES
	            (:id, :quiz_id, :user_id, :course_id, :score_percent, :correct_count, :total_questions, :submitted_at, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}
	return nil
}

// ListRecentByUser returns a user's most recent results, newest first,
// optionally scoped to a course.
func (r *sqlxQuizResultRepository) ListRecentByUser(ctx context.Context, userID, courseID string, limit int) ([]domain.QuizResult, error) {
	var rows []models.QuizResult
	var err error

	if courseID == "" {
		query := `SELECT id, quiz_id, user_id, course_id, score_percent, correct_count, total_questions, submitted_at, created_at
		          FROM quiz_results WHERE user_id = :1
		          ORDER BY submitted_at DESC
		          FETCH FIRST :2 ROWS ONLY`
		err = r.db.SelectContext(ctx, &rows, query, userID, limit)
	} else {
		query := `SELECT id, quiz_id, user_id, course_id, score_percent, correct_count, total_questions, submitted_at, created_at
		          FROM quiz_results WHERE user_id = :1 AND course_id = :2
		          ORDER BY submitted_at DESC
		          FETCH FIRST :3 ROWS ONLY`
		err = r.db.SelectContext(ctx, &rows, query, userID, courseID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list recent quiz results: %w", err)
	}

	results := make([]domain.QuizResult, 0, len(rows))
	for i := range rows {
		results = append(results, *models.QuizResultToDomain(&rows[i]))
	}
	return results, nil
}

// DeleteByCourse removes all results for a course.
func (r *sqlxQuizResultRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM quiz_results WHERE course_id = :1`, courseID); err != nil {
		return fmt.Errorf("failed to delete quiz results by course: %w", err)
	}
	return nil
}
