package domain

import (
	"sort"

	"studyhall/internal/util"
)

// Mastery thresholds on the 0-100 percent scale. 70 and 50 are inclusive
// lower bounds of their bucket: 70 is mastered, 69 and 50 are medium,
// 49 is failed.
const (
	MasteredThresholdPercent = 70
	MediumThresholdPercent   = 50
)

// StatusForScore maps a score percent to a mastery status. Shared by the
// categorizer and the learning-target state machine so the two can never
// disagree on boundary scores.
func StatusForScore(scorePercent int) TargetStatus {
	switch {
	case scorePercent >= MasteredThresholdPercent:
		return StatusMastered
	case scorePercent >= MediumThresholdPercent:
		return StatusMedium
	default:
		return StatusFailed
	}
}

// CorrectnessFacts are the raw scoring facts of one submission.
type CorrectnessFacts struct {
	CorrectCount        int
	TotalQuestions      int
	OverallScorePercent int
	// CorrectByQuestion records per-question correctness, keyed by
	// question ID. Unanswered questions appear with value false.
	CorrectByQuestion map[string]bool
}

// SubTopicPerformance is the same-call classification of one subtopic of
// one submission. Status here is derived from this quiz alone and is not
// the status of the persistent learning target.
type SubTopicPerformance struct {
	SubTopicName  string       `json:"sub_topic_name"`
	ScorePercent  int          `json:"score_percent"`
	Status        TargetStatus `json:"status"`
	QuestionCount int          `json:"question_count"`
	CorrectCount  int          `json:"correct_count"`
}

// DifficultyPerformance carries raw counts per difficulty band. Difficulty
// buckets are never classified into mastery statuses.
type DifficultyPerformance struct {
	Count        int `json:"count"`
	Correct      int `json:"correct"`
	ScorePercent int `json:"score_percent"`
}

// PerformanceCategorization buckets subtopic display names by their
// same-call status.
type PerformanceCategorization struct {
	Mastered []string `json:"mastered"`
	Medium   []string `json:"medium"`
	Failed   []string `json:"failed"`
}

// ScoredQuiz is the full derived result of one submission. It is computed,
// returned to the caller and fed into the target updater; it is not itself
// persisted state (QuizResult is the persisted projection).
type ScoredQuiz struct {
	QuizID                  string
	UserID                  string
	CourseID                string
	OverallScorePercent     int
	CorrectCount            int
	TotalQuestions          int
	PerformanceBySubTopic   map[string]SubTopicPerformance
	PerformanceByDifficulty map[Difficulty]DifficultyPerformance
	Categorization          PerformanceCategorization
}

// Score computes the raw correctness facts of a submission. Pure and
// deterministic: no I/O, no clock, same input always yields the same
// output, which makes idempotent retries upstream safe.
//
// An empty question list returns a well-defined zero result instead of an
// error. An unanswered question counts as incorrect, never as skipped.
func Score(sub *QuizSubmission) CorrectnessFacts {
	facts := CorrectnessFacts{
		TotalQuestions:    len(sub.Questions),
		CorrectByQuestion: make(map[string]bool, len(sub.Questions)),
	}
	for i := range sub.Questions {
		q := &sub.Questions[i]
		answer, answered := sub.Answers[q.ID]
		correct := answered && answer == q.CorrectAnswer
		facts.CorrectByQuestion[q.ID] = correct
		if correct {
			facts.CorrectCount++
		}
	}
	facts.OverallScorePercent = util.Percent(facts.CorrectCount, facts.TotalQuestions)
	return facts
}

// Categorize turns correctness facts into the per-subtopic and
// per-difficulty breakdown. Subtopics and difficulty bands with zero
// questions never appear in the maps. Pure like Score.
func Categorize(sub *QuizSubmission, facts CorrectnessFacts) *ScoredQuiz {
	scored := &ScoredQuiz{
		QuizID:                  sub.QuizID,
		UserID:                  sub.UserID,
		CourseID:                sub.CourseID,
		OverallScorePercent:     facts.OverallScorePercent,
		CorrectCount:            facts.CorrectCount,
		TotalQuestions:          facts.TotalQuestions,
		PerformanceBySubTopic:   map[string]SubTopicPerformance{},
		PerformanceByDifficulty: map[Difficulty]DifficultyPerformance{},
		Categorization: PerformanceCategorization{
			Mastered: []string{},
			Medium:   []string{},
			Failed:   []string{},
		},
	}

	for i := range sub.Questions {
		q := &sub.Questions[i]
		key := q.SubTopicKey()
		perf := scored.PerformanceBySubTopic[key]
		if perf.SubTopicName == "" {
			perf.SubTopicName = q.SubTopicName
		}
		perf.QuestionCount++
		if facts.CorrectByQuestion[q.ID] {
			perf.CorrectCount++
		}
		scored.PerformanceBySubTopic[key] = perf

		diff := scored.PerformanceByDifficulty[q.Difficulty]
		diff.Count++
		if facts.CorrectByQuestion[q.ID] {
			diff.Correct++
		}
		scored.PerformanceByDifficulty[q.Difficulty] = diff
	}

	keys := make([]string, 0, len(scored.PerformanceBySubTopic))
	for key := range scored.PerformanceBySubTopic {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		perf := scored.PerformanceBySubTopic[key]
		perf.ScorePercent = util.Percent(perf.CorrectCount, perf.QuestionCount)
		perf.Status = StatusForScore(perf.ScorePercent)
		scored.PerformanceBySubTopic[key] = perf

		name := perf.SubTopicName
		if name == "" {
			name = key
		}
		switch perf.Status {
		case StatusMastered:
			scored.Categorization.Mastered = append(scored.Categorization.Mastered, name)
		case StatusMedium:
			scored.Categorization.Medium = append(scored.Categorization.Medium, name)
		default:
			scored.Categorization.Failed = append(scored.Categorization.Failed, name)
		}
	}

	for diff, perf := range scored.PerformanceByDifficulty {
		perf.ScorePercent = util.Percent(perf.Correct, perf.Count)
		scored.PerformanceByDifficulty[diff] = perf
	}

	return scored
}

// ComputeScore scores and categorizes a submission in one step.
func ComputeScore(sub *QuizSubmission) *ScoredQuiz {
	return Categorize(sub, Score(sub))
}
