package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"studyhall/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TargetUpdater folds a scored quiz into the submitting user's learning
// targets, one conditional upsert per subtopic.
type TargetUpdater interface {
	// ApplyScoredQuiz updates every subtopic target touched by the scored
	// quiz. It returns the targets as persisted plus the display names of
	// subtopics whose update could not be persisted; it never fails the
	// submission itself.
	ApplyScoredQuiz(ctx context.Context, scored *domain.ScoredQuiz, attemptAt time.Time) (updated []domain.LearningTarget, failedSubTopics []string)
}

// targetUpdater implements TargetUpdater
type targetUpdater struct {
	repo       domain.LearningTargetRepository
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewTargetUpdater creates a new instance of targetUpdater.
// maxRetries bounds retries after the first attempt; baseDelay is the
// backoff start and doubles per retry.
func NewTargetUpdater(repo domain.LearningTargetRepository, maxRetries int, baseDelay time.Duration, logger *zap.Logger) TargetUpdater {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 25 * time.Millisecond
	}
	return &targetUpdater{
		repo:       repo,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// ApplyScoredQuiz implements TargetUpdater. Subtopics update in parallel;
// a failed subtopic never blocks the others.
func (u *targetUpdater) ApplyScoredQuiz(ctx context.Context, scored *domain.ScoredQuiz, attemptAt time.Time) ([]domain.LearningTarget, []string) {
	if len(scored.PerformanceBySubTopic) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	var updated []domain.LearningTarget
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for key := range scored.PerformanceBySubTopic {
		perf := scored.PerformanceBySubTopic[key]
		g.Go(func() error {
			target, err := u.updateOne(gctx, scored.UserID, scored.CourseID, perf, attemptAt)
			if err != nil {
				u.logger.Error("Failed to update learning target",
					zap.String("user_id", scored.UserID),
					zap.String("course_id", scored.CourseID),
					zap.String("sub_topic", perf.SubTopicName),
					zap.Error(err))
				mu.Lock()
				failed = append(failed, perf.SubTopicName)
				mu.Unlock()
			} else {
				mu.Lock()
				updated = append(updated, *target)
				mu.Unlock()
			}
			// Failures are reported through failedSubTopics, never as an
			// error that would cancel sibling updates.
			return nil
		})
	}
	g.Wait()

	sort.Slice(updated, func(i, j int) bool {
		return updated[i].NormalizedSubTopic < updated[j].NormalizedSubTopic
	})
	sort.Strings(failed)
	return updated, failed
}

func (u *targetUpdater) updateOne(ctx context.Context, userID, courseID string, perf domain.SubTopicPerformance, attemptAt time.Time) (*domain.LearningTarget, error) {
	var lastErr error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		if attempt > 0 {
			delay := u.baseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			u.logger.Debug("Retrying learning target update",
				zap.String("user_id", userID),
				zap.String("sub_topic", perf.SubTopicName),
				zap.Int("attempt", attempt))
		}

		target, err := u.repo.UpsertTransactional(ctx, userID, courseID, perf.SubTopicName,
			func(target *domain.LearningTarget) error {
				target.ApplyAttempt(perf.ScorePercent, attemptAt)
				return nil
			})
		if err == nil {
			return target, nil
		}
		lastErr = err
		if !isRetryableTargetError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func isRetryableTargetError(err error) bool {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == domain.CodeConcurrencyConflict || domainErr.Code == domain.CodePersistence
}
