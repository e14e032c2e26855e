package domain

import (
	"fmt"
	"testing"
)

func makeQuestion(id, subTopic string, diff Difficulty, correctAnswer string) Question {
	return Question{
		ID:            id,
		SubTopicName:  subTopic,
		Difficulty:    diff,
		Prompt:        "prompt " + id,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: correctAnswer,
	}
}

func TestScore_EmptyQuiz(t *testing.T) {
	sub := &QuizSubmission{
		QuizID:    "quiz1",
		UserID:    "user1",
		Questions: []Question{},
		Answers:   map[string]string{},
	}

	facts := Score(sub)
	if facts.TotalQuestions != 0 || facts.CorrectCount != 0 || facts.OverallScorePercent != 0 {
		t.Errorf("empty quiz: got total=%d correct=%d score=%d, want all zero",
			facts.TotalQuestions, facts.CorrectCount, facts.OverallScorePercent)
	}

	scored := Categorize(sub, facts)
	if len(scored.PerformanceBySubTopic) != 0 {
		t.Errorf("empty quiz: PerformanceBySubTopic should be empty, got %v", scored.PerformanceBySubTopic)
	}
	if len(scored.PerformanceByDifficulty) != 0 {
		t.Errorf("empty quiz: PerformanceByDifficulty should be empty, got %v", scored.PerformanceByDifficulty)
	}
	if len(scored.Categorization.Mastered) != 0 || len(scored.Categorization.Medium) != 0 || len(scored.Categorization.Failed) != 0 {
		t.Errorf("empty quiz: categorization should be empty, got %+v", scored.Categorization)
	}
}

func TestScore_UnansweredCountsIncorrect(t *testing.T) {
	sub := &QuizSubmission{
		Questions: []Question{
			makeQuestion("q1", "loops", DifficultyEasy, "a"),
			makeQuestion("q2", "loops", DifficultyEasy, "b"),
		},
		Answers: map[string]string{"q1": "a"}, // q2 unanswered
	}

	facts := Score(sub)
	if facts.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", facts.CorrectCount)
	}
	if correct, ok := facts.CorrectByQuestion["q2"]; !ok || correct {
		t.Errorf("unanswered q2 should be present and incorrect, got ok=%v correct=%v", ok, correct)
	}
	if facts.OverallScorePercent != 50 {
		t.Errorf("OverallScorePercent = %d, want 50", facts.OverallScorePercent)
	}
}

func TestScore_RoundHalfUp(t *testing.T) {
	// 2 of 3 correct: 66.66 -> 67. 1 of 8 correct: 12.5 -> 13.
	tests := []struct {
		total, correct, want int
	}{
		{3, 2, 67},
		{8, 1, 13},
		{6, 1, 17}, // 16.66 -> 17
		{7, 2, 29}, // 28.57 -> 29
		{10, 7, 70},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.correct, tt.total), func(t *testing.T) {
			sub := &QuizSubmission{Answers: map[string]string{}}
			for i := 0; i < tt.total; i++ {
				id := fmt.Sprintf("q%d", i)
				sub.Questions = append(sub.Questions, makeQuestion(id, "topic", DifficultyMedium, "a"))
				if i < tt.correct {
					sub.Answers[id] = "a"
				} else {
					sub.Answers[id] = "b"
				}
			}
			facts := Score(sub)
			if facts.OverallScorePercent != tt.want {
				t.Errorf("score = %d, want %d", facts.OverallScorePercent, tt.want)
			}
		})
	}
}

func TestScore_FlippingAnswerNeverDecreases(t *testing.T) {
	sub := &QuizSubmission{Answers: map[string]string{}}
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("q%d", i)
		sub.Questions = append(sub.Questions, makeQuestion(id, "topic", DifficultyHard, "a"))
		if i%2 == 0 {
			sub.Answers[id] = "a"
		} else {
			sub.Answers[id] = "wrong"
		}
	}

	before := Score(sub).OverallScorePercent
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("q%d", i)
		if sub.Answers[id] == "a" {
			continue
		}
		fixed := &QuizSubmission{Questions: sub.Questions, Answers: map[string]string{}}
		for k, v := range sub.Answers {
			fixed.Answers[k] = v
		}
		fixed.Answers[id] = "a"
		after := Score(fixed).OverallScorePercent
		if after < before {
			t.Errorf("fixing %s decreased score from %d to %d", id, before, after)
		}
	}
}

func TestStatusForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  TargetStatus
	}{
		{100, StatusMastered},
		{70, StatusMastered},
		{69, StatusMedium},
		{50, StatusMedium},
		{49, StatusFailed},
		{0, StatusFailed},
	}
	for _, tt := range tests {
		if got := StatusForScore(tt.score); got != tt.want {
			t.Errorf("StatusForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCategorize_SubTopicBreakdown(t *testing.T) {
	sub := &QuizSubmission{
		QuizID: "quiz1",
		UserID: "user1",
		Questions: []Question{
			makeQuestion("q1", "Loops", DifficultyEasy, "a"),
			makeQuestion("q2", "Loops", DifficultyMedium, "a"),
			makeQuestion("q3", "Pointers", DifficultyHard, "a"),
			makeQuestion("q4", "Pointers", DifficultyHard, "a"),
		},
		Answers: map[string]string{
			"q1": "a", "q2": "a", // loops 2/2 -> mastered
			"q3": "a", "q4": "b", // pointers 1/2 -> medium
		},
	}

	scored := ComputeScore(sub)

	loops, ok := scored.PerformanceBySubTopic["loops"]
	if !ok {
		t.Fatalf("missing subtopic key 'loops' in %v", scored.PerformanceBySubTopic)
	}
	if loops.ScorePercent != 100 || loops.Status != StatusMastered || loops.QuestionCount != 2 || loops.CorrectCount != 2 {
		t.Errorf("loops = %+v, want 100%%/mastered/2/2", loops)
	}

	pointers := scored.PerformanceBySubTopic["pointers"]
	if pointers.ScorePercent != 50 || pointers.Status != StatusMedium {
		t.Errorf("pointers = %+v, want 50%%/medium", pointers)
	}

	hard := scored.PerformanceByDifficulty[DifficultyHard]
	if hard.Count != 2 || hard.Correct != 1 || hard.ScorePercent != 50 {
		t.Errorf("hard difficulty = %+v, want count=2 correct=1 score=50", hard)
	}

	if len(scored.Categorization.Mastered) != 1 || scored.Categorization.Mastered[0] != "Loops" {
		t.Errorf("mastered = %v, want [Loops]", scored.Categorization.Mastered)
	}
	if len(scored.Categorization.Medium) != 1 || scored.Categorization.Medium[0] != "Pointers" {
		t.Errorf("medium = %v, want [Pointers]", scored.Categorization.Medium)
	}
	if len(scored.Categorization.Failed) != 0 {
		t.Errorf("failed = %v, want empty", scored.Categorization.Failed)
	}
}

func TestComputeScore_TenQuestionsSevenCorrect(t *testing.T) {
	sub := &QuizSubmission{
		QuizID:  "quiz1",
		UserID:  "user1",
		Answers: map[string]string{},
	}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("q%d", i)
		sub.Questions = append(sub.Questions, makeQuestion(id, "loops", DifficultyMedium, "a"))
		if i < 7 {
			sub.Answers[id] = "a"
		} else {
			sub.Answers[id] = "b"
		}
	}

	scored := ComputeScore(sub)
	if scored.OverallScorePercent != 70 {
		t.Errorf("OverallScorePercent = %d, want 70", scored.OverallScorePercent)
	}
	perf := scored.PerformanceBySubTopic["loops"]
	if perf.ScorePercent != 70 || perf.Status != StatusMastered || perf.QuestionCount != 10 || perf.CorrectCount != 7 {
		t.Errorf("loops = %+v, want {70 mastered 10 7}", perf)
	}
}

func TestQuizSubmission_Validate(t *testing.T) {
	valid := func() *QuizSubmission {
		return &QuizSubmission{
			QuizID:    "quiz1",
			UserID:    "user1",
			Questions: []Question{makeQuestion("q1", "loops", DifficultyEasy, "a")},
			Answers:   map[string]string{"q1": "a"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*QuizSubmission)
		wantErr bool
	}{
		{"valid submission", func(s *QuizSubmission) {}, false},
		{"empty questions is degenerate but legal", func(s *QuizSubmission) {
			s.Questions = []Question{}
			s.Answers = map[string]string{}
		}, false},
		{"nil questions is malformed", func(s *QuizSubmission) { s.Questions = nil }, true},
		{"missing user id", func(s *QuizSubmission) { s.UserID = "" }, true},
		{"answer references unknown question", func(s *QuizSubmission) { s.Answers["ghost"] = "a" }, true},
		{"question missing correct answer", func(s *QuizSubmission) { s.Questions[0].CorrectAnswer = "" }, true},
		{"question with bad difficulty", func(s *QuizSubmission) { s.Questions[0].Difficulty = "extreme" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(ValidationErrors); !ok {
					t.Errorf("Validate() error type = %T, want ValidationErrors", err)
				}
			}
		})
	}
}
