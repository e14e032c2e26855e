package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyhall/internal/domain"
	"studyhall/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db    *sqlx.DB
	clock domain.Clock
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB, clock domain.Clock) domain.QuizRepository {
	return &sqlxQuizRepository{db: db, clock: clock}
}

// GetQuizByID retrieves a quiz together with its questions.
// Returns (nil, nil) when the quiz does not exist.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var quiz models.Quiz
	query := `SELECT id, course_id, title, time_limit_sec, created_at, updated_at
	          FROM quizzes WHERE id = :1`

	err := r.db.GetContext(ctx, &quiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	var questions []models.Question
	questionQuery := `SELECT id, quiz_id, sub_topic_name, normalized_sub_topic, difficulty,
	                         prompt, options, correct_answer, created_at, updated_at
	                  FROM questions WHERE quiz_id = :1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &questions, questionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz: %w", err)
	}

	return models.QuizToDomain(&quiz, questions), nil
}

// GetQuizzesByCourse retrieves all quizzes of a course without their questions.
func (r *sqlxQuizRepository) GetQuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT id, course_id, title, time_limit_sec, created_at, updated_at
	          FROM quizzes WHERE course_id = :1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to get quizzes by course: %w", err)
	}

	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, *models.QuizToDomain(&rows[i], nil))
	}
	return quizzes, nil
}

// SaveQuiz inserts a quiz and its questions.
func (r *sqlxQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	executor := GetExecutor(ctx, r.db)

	now := r.clock.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	model := models.QuizFromDomain(quiz)
	query := `INSERT INTO quizzes (id, course_id, title, time_limit_sec, created_at, updated_at)
	          VALUES (:id, :course_id, :title, :time_limit_sec, :created_at, :updated_at)`
	if _, err := executor.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	return r.saveQuestions(ctx, executor, quiz.ID, quiz.Questions, now)
}

// SaveQuestions appends questions to an existing quiz.
func (r *sqlxQuizRepository) SaveQuestions(ctx context.Context, quizID string, questions []domain.Question) error {
	executor := GetExecutor(ctx, r.db)
	return r.saveQuestions(ctx, executor, quizID, questions, r.clock.Now())
}

func (r *sqlxQuizRepository) saveQuestions(ctx context.Context, executor DBTX, quizID string, questions []domain.Question, now time.Time) error {
	query := `INSERT INTO questions
	            (id, quiz_id, sub_topic_name, normalized_sub_topic, difficulty,
	             prompt, options, correct_answer, created_at, updated_at)
	          VALUES
	            (:id, :quiz_id, :sub_topic_name, :normalized_sub_topic, :difficulty,
	             :prompt, :options, :correct_answer, :created_at, :updated_at)`

	for i := range questions {
		questions[i].QuizID = quizID
		questions[i].CreatedAt = now
		questions[i].UpdatedAt = now
		model := models.QuestionFromDomain(&questions[i])
		if _, err := executor.NamedExecContext(ctx, query, model); err != nil {
			return fmt.Errorf("failed to create question %s: %w", questions[i].ID, err)
		}
	}
	return nil
}

// DeleteByCourse removes a course's quizzes and their questions.
// Participates in the course-deletion transaction when one is in the context.
func (r *sqlxQuizRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	executor := GetExecutor(ctx, r.db)

	questionQuery := `DELETE FROM questions WHERE quiz_id IN (SELECT id FROM quizzes WHERE course_id = :1)`
	if _, err := executor.ExecContext(ctx, questionQuery, courseID); err != nil {
		return fmt.Errorf("failed to delete questions by course: %w", err)
	}

	if _, err := executor.ExecContext(ctx, `DELETE FROM quizzes WHERE course_id = :1`, courseID); err != nil {
		return fmt.Errorf("failed to delete quizzes by course: %w", err)
	}
	return nil
}
