package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studyhall/internal/domain"
	"studyhall/internal/repository/models"
	"studyhall/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxLearningTargetRepository implements domain.LearningTargetRepository using sqlx.
type sqlxLearningTargetRepository struct {
	db    *sqlx.DB
	clock domain.Clock
}

// NewSQLXLearningTargetRepository creates a new instance of sqlxLearningTargetRepository.
func NewSQLXLearningTargetRepository(db *sqlx.DB, clock domain.Clock) domain.LearningTargetRepository {
	return &sqlxLearningTargetRepository{db: db, clock: clock}
}

const learningTargetColumns = `id, user_id, course_id, sub_topic_name, normalized_sub_topic, status,
	fail_count, medium_count, success_count, last_attempt, last_attempt_score,
	is_new_topic, version, created_at, updated_at`

// FindByKey retrieves a target by its (user, course, subtopic) key.
// Returns (nil, nil) when no target exists for the key.
func (r *sqlxLearningTargetRepository) FindByKey(ctx context.Context, userID, courseID, normalizedSubTopic string) (*domain.LearningTarget, error) {
	var m models.LearningTarget
	query := `SELECT ` + learningTargetColumns + ` FROM learning_targets
	          WHERE user_id = :1 AND course_id = :2 AND normalized_sub_topic = :3`

	err := r.db.GetContext(ctx, &m, query, userID, models.CourseIDToDB(courseID), normalizedSubTopic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learning target by key: %w", err)
	}
	return models.LearningTargetToDomain(&m), nil
}

// ListByUser retrieves all targets for a user, optionally scoped to a course.
func (r *sqlxLearningTargetRepository) ListByUser(ctx context.Context, userID, courseID string) ([]domain.LearningTarget, error) {
	var rows []models.LearningTarget
	var err error

	if courseID == "" {
		query := `SELECT ` + learningTargetColumns + ` FROM learning_targets
		          WHERE user_id = :1 ORDER BY normalized_sub_topic`
		err = r.db.SelectContext(ctx, &rows, query, userID)
	} else {
		query := `SELECT ` + learningTargetColumns + ` FROM learning_targets
		          WHERE user_id = :1 AND course_id = :2 ORDER BY normalized_sub_topic`
		err = r.db.SelectContext(ctx, &rows, query, userID, models.CourseIDToDB(courseID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list learning targets: %w", err)
	}

	targets := make([]domain.LearningTarget, 0, len(rows))
	for i := range rows {
		targets = append(targets, *models.LearningTargetToDomain(&rows[i]))
	}
	return targets, nil
}

// ListByCourseStatus retrieves all targets in a course with the given status,
// across users. The batch generator uses this to find struggling subtopics.
func (r *sqlxLearningTargetRepository) ListByCourseStatus(ctx context.Context, courseID string, status domain.TargetStatus) ([]domain.LearningTarget, error) {
	var rows []models.LearningTarget
	query := `SELECT ` + learningTargetColumns + ` FROM learning_targets
	          WHERE course_id = :1 AND status = :2 ORDER BY normalized_sub_topic`

	err := r.db.SelectContext(ctx, &rows, query, models.CourseIDToDB(courseID), string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list learning targets by status: %w", err)
	}

	targets := make([]domain.LearningTarget, 0, len(rows))
	for i := range rows {
		targets = append(targets, *models.LearningTargetToDomain(&rows[i]))
	}
	return targets, nil
}

// DeleteByCourse removes all targets for a course. Participates in the
// course-deletion transaction when one is carried in the context.
func (r *sqlxLearningTargetRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, `DELETE FROM learning_targets WHERE course_id = :1`, models.CourseIDToDB(courseID))
	if err != nil {
		return fmt.Errorf("failed to delete learning targets by course: %w", err)
	}
	return nil
}

// UpsertTransactional implements the atomic read-modify-write on a single
// target key. The row carries a version column; a concurrent writer makes
// the conditional UPDATE match zero rows, which surfaces as a
// CodeConcurrencyConflict error for the caller to retry.
func (r *sqlxLearningTargetRepository) UpsertTransactional(ctx context.Context, userID, courseID, subTopicName string, update func(*domain.LearningTarget) error) (*domain.LearningTarget, error) {
	key := fmt.Sprintf("%s/%s/%s", userID, courseID, domain.NormalizeSubTopicName(subTopicName))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	normalized := domain.NormalizeSubTopicName(subTopicName)
	var m models.LearningTarget
	query := `SELECT ` + learningTargetColumns + ` FROM learning_targets
	          WHERE user_id = :1 AND course_id = :2 AND normalized_sub_topic = :3`
	err = tx.GetContext(ctx, &m, query, userID, models.CourseIDToDB(courseID), normalized)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		target := domain.NewLearningTarget(userID, courseID, subTopicName, r.clock.Now())
		target.ID = util.NewULID()
		if uErr := update(target); uErr != nil {
			return nil, uErr
		}
		if iErr := r.insertTarget(ctx, tx, target); iErr != nil {
			return nil, iErr
		}
		if cErr := tx.Commit(); cErr != nil {
			return nil, domain.NewPersistenceError("failed to commit learning target insert", cErr)
		}
		return target, nil

	case err != nil:
		return nil, domain.NewPersistenceError("failed to load learning target", err)
	}

	target := models.LearningTargetToDomain(&m)
	oldVersion := target.Version
	if uErr := update(target); uErr != nil {
		return nil, uErr
	}
	target.Version = oldVersion + 1

	updateQuery := `UPDATE learning_targets SET
	                  sub_topic_name = :1, status = :2,
	                  fail_count = :3, medium_count = :4, success_count = :5,
	                  last_attempt = :6, last_attempt_score = :7,
	                  is_new_topic = :8, version = :9, updated_at = :10
	                WHERE id = :11 AND version = :12`

	model := models.LearningTargetFromDomain(target)
	result, err := tx.ExecContext(ctx, updateQuery,
		model.SubTopicName, model.Status,
		model.FailCount, model.MediumCount, model.SuccessCount,
		model.LastAttempt, model.LastAttemptScore,
		model.IsNewTopic, model.Version, model.UpdatedAt,
		model.ID, oldVersion)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update learning target", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, domain.NewConcurrencyConflictError(key, nil)
	}

	if cErr := tx.Commit(); cErr != nil {
		return nil, domain.NewPersistenceError("failed to commit learning target update", cErr)
	}
	return target, nil
}

func (r *sqlxLearningTargetRepository) insertTarget(ctx context.Context, tx *sqlx.Tx, target *domain.LearningTarget) error {
	key := fmt.Sprintf("%s/%s/%s", target.UserID, target.CourseID, target.NormalizedSubTopic)
	model := models.LearningTargetFromDomain(target)

	query := `INSERT INTO learning_targets
	            (id, user_id, course_id, sub_topic_name, normalized_sub_topic, status,
	             fail_count, medium_count, success_count, last_attempt, last_attempt_score,
	             is_new_topic, version, created_at, updated_at)
	          VALUES
	            (:id, :user_id, :course_id, :sub_topic_name, :normalized_sub_topic, :status,
	             :fail_count, :medium_count, :success_count, :last_attempt, :last_attempt_score,
	             :is_new_topic, :version, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, query, model); err != nil {
		// ORA-00001: another writer created the row for this key first.
		if isUniqueViolation(err) {
			return domain.NewConcurrencyConflictError(key, err)
		}
		return domain.NewPersistenceError("failed to insert learning target", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "ORA-00001") || strings.Contains(strings.ToLower(msg), "unique constraint")
}
