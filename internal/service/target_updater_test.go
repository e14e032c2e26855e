package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"studyhall/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func makeScored(userID, courseID string, scores map[string]int) *domain.ScoredQuiz {
	perf := make(map[string]domain.SubTopicPerformance, len(scores))
	for name, score := range scores {
		perf[domain.NormalizeSubTopicName(name)] = domain.SubTopicPerformance{
			SubTopicName: name,
			ScorePercent: score,
			Status:       domain.StatusForScore(score),
		}
	}
	return &domain.ScoredQuiz{
		QuizID:                "quiz1",
		UserID:                userID,
		CourseID:              courseID,
		PerformanceBySubTopic: perf,
	}
}

func TestTargetUpdater_AppliesAllSubTopics(t *testing.T) {
	repo := newFakeTargetRepo()
	updater := NewTargetUpdater(repo, 3, time.Millisecond, zap.NewNop())

	scored := makeScored("user1", "course1", map[string]int{
		"Loops":    80,
		"Pointers": 40,
		"Slices":   55,
	})

	updated, failed := updater.ApplyScoredQuiz(context.Background(), scored, time.Now())
	assert.Empty(t, failed)

	// Updated targets come back sorted by normalized subtopic.
	require.Len(t, updated, 3)
	assert.Equal(t, "loops", updated[0].NormalizedSubTopic)
	assert.Equal(t, "pointers", updated[1].NormalizedSubTopic)
	assert.Equal(t, "slices", updated[2].NormalizedSubTopic)
	assert.Equal(t, domain.StatusMastered, updated[0].Status)

	loops, err := repo.FindByKey(context.Background(), "user1", "course1", "loops")
	require.NoError(t, err)
	require.NotNil(t, loops)
	assert.Equal(t, domain.StatusMastered, loops.Status)
	assert.Equal(t, 1, loops.AttemptTotal())

	pointers, _ := repo.FindByKey(context.Background(), "user1", "course1", "pointers")
	require.NotNil(t, pointers)
	assert.Equal(t, domain.StatusFailed, pointers.Status)

	slices, _ := repo.FindByKey(context.Background(), "user1", "course1", "slices")
	require.NotNil(t, slices)
	assert.Equal(t, domain.StatusMedium, slices.Status)
}

func TestTargetUpdater_ConcurrentSubmissionsCountBothAttempts(t *testing.T) {
	repo := newFakeTargetRepo()
	updater := NewTargetUpdater(repo, 10, time.Millisecond, zap.NewNop())

	scored := makeScored("user1", "course1", map[string]int{"Recursion": 75})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, failed := updater.ApplyScoredQuiz(context.Background(), scored, time.Now())
			assert.Empty(t, failed)
		}()
	}
	wg.Wait()

	target, err := repo.FindByKey(context.Background(), "user1", "course1", "recursion")
	require.NoError(t, err)
	require.NotNil(t, target)
	// Both attempts must be accounted for, never lost to a race.
	assert.Equal(t, 2, target.AttemptTotal())
	assert.Equal(t, 2, target.SuccessCount)
}

func TestTargetUpdater_RetriesOnConflict(t *testing.T) {
	repo := newFakeTargetRepo()
	repo.conflict = func(call int) bool { return call == 1 }
	updater := NewTargetUpdater(repo, 3, time.Millisecond, zap.NewNop())

	scored := makeScored("user1", "course1", map[string]int{"Loops": 90})

	updated, failed := updater.ApplyScoredQuiz(context.Background(), scored, time.Now())
	assert.Empty(t, failed)
	require.Len(t, updated, 1)

	target, _ := repo.FindByKey(context.Background(), "user1", "course1", "loops")
	require.NotNil(t, target)
	assert.Equal(t, 1, target.AttemptTotal())
	assert.GreaterOrEqual(t, repo.calls, 2)
}

func TestTargetUpdater_ExhaustedRetriesReportFailedSubTopics(t *testing.T) {
	repo := newFakeTargetRepo()
	repo.conflict = func(call int) bool { return true }
	updater := NewTargetUpdater(repo, 2, time.Millisecond, zap.NewNop())

	scored := makeScored("user1", "course1", map[string]int{
		"Pointers": 30,
		"Loops":    30,
	})

	updated, failed := updater.ApplyScoredQuiz(context.Background(), scored, time.Now())
	assert.Empty(t, updated)
	// Sorted display names, so failures are deterministic for clients.
	assert.Equal(t, []string{"Loops", "Pointers"}, failed)
}

func TestTargetUpdater_OneFailureDoesNotBlockOthers(t *testing.T) {
	repo := new(MockLearningTargetRepository)
	ok := domain.NewLearningTarget("user1", "course1", "Loops", time.Now())
	repo.On("UpsertTransactional", mock.Anything, "user1", "course1", "Loops", mock.Anything).
		Return(ok, nil)
	repo.On("UpsertTransactional", mock.Anything, "user1", "course1", "Pointers", mock.Anything).
		Return(nil, domain.NewPersistenceError("db down", nil))

	updater := NewTargetUpdater(repo, 1, time.Millisecond, zap.NewNop())
	scored := makeScored("user1", "course1", map[string]int{
		"Loops":    100,
		"Pointers": 100,
	})

	updated, failed := updater.ApplyScoredQuiz(context.Background(), scored, time.Now())
	assert.Equal(t, []string{"Pointers"}, failed)
	require.Len(t, updated, 1)
	assert.Equal(t, "loops", updated[0].NormalizedSubTopic)
	repo.AssertCalled(t, "UpsertTransactional", mock.Anything, "user1", "course1", "Loops", mock.Anything)
}
