package domain

import (
	"testing"
	"time"
)

func TestLearningTarget_FirstAttempt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	target := NewLearningTarget("user1", "course1", "Loops", now)

	if target.Status != StatusPending {
		t.Fatalf("new target status = %s, want pending", target.Status)
	}
	if target.NormalizedSubTopic != "loops" {
		t.Fatalf("normalized key = %q, want %q", target.NormalizedSubTopic, "loops")
	}

	attemptAt := now.Add(time.Minute)
	target.ApplyAttempt(80, attemptAt)

	if target.Status != StatusMastered {
		t.Errorf("status = %s, want mastered", target.Status)
	}
	if !target.IsNewTopic {
		t.Errorf("IsNewTopic should stay true after the first attempt")
	}
	if target.SuccessCount != 1 || target.FailCount != 0 || target.MediumCount != 0 {
		t.Errorf("counters = fail=%d medium=%d success=%d, want 0/0/1",
			target.FailCount, target.MediumCount, target.SuccessCount)
	}
	if target.LastAttempt == nil || !target.LastAttempt.Equal(attemptAt) {
		t.Errorf("LastAttempt = %v, want %v", target.LastAttempt, attemptAt)
	}
	if target.LastAttemptScore == nil || *target.LastAttemptScore != 80 {
		t.Errorf("LastAttemptScore = %v, want 80", target.LastAttemptScore)
	}
}

func TestLearningTarget_RegressionAllowed(t *testing.T) {
	now := time.Now()
	target := NewLearningTarget("user1", "", "recursion", now)
	target.ApplyAttempt(90, now)

	target.ApplyAttempt(40, now.Add(time.Hour))

	if target.Status != StatusFailed {
		t.Errorf("status after regression = %s, want failed", target.Status)
	}
	if target.FailCount != 1 {
		t.Errorf("FailCount = %d, want 1", target.FailCount)
	}
	if target.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d, want 1 (unchanged)", target.SuccessCount)
	}
	if target.IsNewTopic {
		t.Errorf("IsNewTopic should be false after a second attempt")
	}
}

func TestLearningTarget_ExactlyOneCounterPerAttempt(t *testing.T) {
	now := time.Now()
	target := NewLearningTarget("user1", "course1", "sorting", now)

	scores := []int{10, 55, 70, 69, 100, 0, 50}
	for i, score := range scores {
		target.ApplyAttempt(score, now.Add(time.Duration(i)*time.Minute))
		if got := target.AttemptTotal(); got != i+1 {
			t.Fatalf("after %d attempts AttemptTotal = %d", i+1, got)
		}
	}

	if target.FailCount != 2 || target.MediumCount != 3 || target.SuccessCount != 2 {
		t.Errorf("counters = fail=%d medium=%d success=%d, want 2/3/2",
			target.FailCount, target.MediumCount, target.SuccessCount)
	}
	if target.Status != StatusMedium {
		t.Errorf("final status = %s, want medium (last score 50)", target.Status)
	}
}

func TestLearningTarget_StatusMatchesCategorizerThresholds(t *testing.T) {
	now := time.Now()
	for score := 0; score <= 100; score++ {
		target := NewLearningTarget("u", "c", "t", now)
		target.ApplyAttempt(score, now)
		if target.Status != StatusForScore(score) {
			t.Fatalf("score %d: target status %s != StatusForScore %s",
				score, target.Status, StatusForScore(score))
		}
	}
}
