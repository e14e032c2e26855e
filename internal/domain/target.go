package domain

import (
	"context"
	"fmt"
	"time"
)

// TargetStatus is the mastery status of a learning target.
type TargetStatus string

const (
	StatusPending  TargetStatus = "pending"
	StatusFailed   TargetStatus = "failed"
	StatusMedium   TargetStatus = "medium"
	StatusMastered TargetStatus = "mastered"
)

// IsValid reports whether s is a known status.
func (s TargetStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusFailed, StatusMedium, StatusMastered:
		return true
	}
	return false
}

// LearningTarget is a persistent per-user, per-subtopic mastery record
// that accumulates outcomes across many independent quiz attempts.
// Unique per (UserID, CourseID, NormalizedSubTopic). Pending is only the
// implicit state of a target that has never received an attempt; after
// the first attempt the target always carries a concrete status.
type LearningTarget struct {
	ID                 string
	UserID             string
	CourseID           string
	SubTopicName       string
	NormalizedSubTopic string
	Status             TargetStatus
	FailCount          int
	MediumCount        int
	SuccessCount       int
	LastAttempt        *time.Time
	LastAttemptScore   *int
	IsNewTopic         bool
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewLearningTarget initializes a target for its first attempt: all
// counters at zero, pending status, IsNewTopic true.
func NewLearningTarget(userID, courseID, subTopicName string, now time.Time) *LearningTarget {
	return &LearningTarget{
		UserID:             userID,
		CourseID:           courseID,
		SubTopicName:       subTopicName,
		NormalizedSubTopic: NormalizeSubTopicName(subTopicName),
		Status:             StatusPending,
		IsNewTopic:         true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Key returns the identity key of the target within its user/course scope.
func (t *LearningTarget) Key() string {
	return fmt.Sprintf("%s/%s/%s", t.UserID, t.CourseID, t.NormalizedSubTopic)
}

// AttemptTotal is the number of attempts the counters account for.
// After N applied attempts it must equal N; this is the core consistency
// contract of the whole subsystem.
func (t *LearningTarget) AttemptTotal() int {
	return t.FailCount + t.MediumCount + t.SuccessCount
}

// ApplyAttempt folds one quiz attempt into the target: derives the new
// status from the score, increments exactly one matching counter and
// stamps the attempt. Regression is permitted; mastery is not monotonic.
// A target is never left pending after an attempt, so pending never
// increments a counter.
func (t *LearningTarget) ApplyAttempt(scorePercent int, now time.Time) {
	if t.Status != StatusPending {
		// A second attempt exists, the topic is no longer new.
		t.IsNewTopic = false
	}

	newStatus := StatusForScore(scorePercent)
	switch newStatus {
	case StatusFailed:
		t.FailCount++
	case StatusMedium:
		t.MediumCount++
	case StatusMastered:
		t.SuccessCount++
	}

	t.Status = newStatus
	attemptAt := now
	t.LastAttempt = &attemptAt
	score := scorePercent
	t.LastAttemptScore = &score
	t.UpdatedAt = now
}

// LearningTargetRepository is the persistence port for learning targets.
// FindByKey returns (nil, nil) when no target exists for the key.
type LearningTargetRepository interface {
	FindByKey(ctx context.Context, userID, courseID, normalizedSubTopic string) (*LearningTarget, error)
	ListByUser(ctx context.Context, userID, courseID string) ([]LearningTarget, error)
	ListByCourseStatus(ctx context.Context, courseID string, status TargetStatus) ([]LearningTarget, error)
	DeleteByCourse(ctx context.Context, courseID string) error

	// UpsertTransactional loads or initializes the target for the key,
	// applies update to it and persists the result as one atomic
	// conditional write scoped to that key. When another writer changed
	// the row between read and write it returns a DomainError with
	// CodeConcurrencyConflict and persists nothing; callers retry.
	UpsertTransactional(ctx context.Context, userID, courseID, subTopicName string, update func(*LearningTarget) error) (*LearningTarget, error)
}

// Clock abstracts time for deterministic scoring and target updates.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
