package domain

import (
	"fmt"
	"time"
)

// Difficulty is the difficulty band a question is tagged with.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the known difficulty bands.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DifficultyToInt maps a difficulty band to its storage level (1..3).
func DifficultyToInt(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 2
	}
}

// DifficultyFromInt maps a storage level back to a difficulty band.
func DifficultyFromInt(level int) Difficulty {
	switch level {
	case 1:
		return DifficultyEasy
	case 3:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Question represents one question of a quiz.
// NormalizedSubTopic must always equal NormalizeSubTopicName(SubTopicName);
// when it is empty it is derived on access.
type Question struct {
	ID                 string
	QuizID             string
	SubTopicName       string
	NormalizedSubTopic string
	Difficulty         Difficulty
	Prompt             string
	Options            []string
	CorrectAnswer      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SubTopicKey returns the canonical subtopic key, deriving it from the
// display name when the stored value is absent.
func (q *Question) SubTopicKey() string {
	if q.NormalizedSubTopic != "" {
		return q.NormalizedSubTopic
	}
	return NormalizeSubTopicName(q.SubTopicName)
}

// Validate validates the question
func (q *Question) Validate() error {
	var errs ValidationErrors
	if q.ID == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "question id is required"})
	}
	if q.Prompt == "" {
		errs = append(errs, ValidationError{Field: "prompt", Message: "prompt is required"})
	}
	if q.CorrectAnswer == "" {
		errs = append(errs, ValidationError{Field: "correct_answer", Message: "correct answer is required"})
	}
	if !q.Difficulty.IsValid() {
		errs = append(errs, ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", string(q.Difficulty))})
	}
	if q.SubTopicName == "" && q.NormalizedSubTopic == "" {
		errs = append(errs, ValidationError{Field: "sub_topic_name", Message: "sub topic name is required"})
	}
	if q.NormalizedSubTopic != "" && q.SubTopicName != "" &&
		q.NormalizedSubTopic != NormalizeSubTopicName(q.SubTopicName) {
		errs = append(errs, ValidationError{Field: "normalized_sub_topic", Message: "normalized sub topic does not match sub topic name"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Quiz represents a quiz in the question bank.
type Quiz struct {
	ID           string
	CourseID     string
	Title        string
	TimeLimitSec int
	Questions    []Question
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewQuiz creates a new Quiz instance
func NewQuiz(courseID, title string, now time.Time) *Quiz {
	return &Quiz{
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the quiz
func (z *Quiz) Validate() error {
	if z.Title == "" {
		return NewValidationError("title", "title is required")
	}
	for i := range z.Questions {
		if err := z.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuizSubmission is a completed quiz plus the user's answers, the unit of
// work fed into scoring. Answers maps question ID to the user's answer;
// a question absent from the map counts as answered incorrectly.
type QuizSubmission struct {
	QuizID      string
	UserID      string
	CourseID    string
	Questions   []Question
	Answers     map[string]string
	ElapsedSec  int
	SubmittedAt time.Time
}

// Validate rejects malformed submissions before any scoring occurs.
// A nil questions slice is malformed; an empty one is a legal degenerate
// case that scores to zero. Every answer must reference a known question.
func (s *QuizSubmission) Validate() error {
	var errs ValidationErrors
	if s.UserID == "" {
		errs = append(errs, ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if s.Questions == nil {
		errs = append(errs, ValidationError{Field: "questions", Message: "questions are required"})
	}
	known := make(map[string]struct{}, len(s.Questions))
	for i := range s.Questions {
		if err := s.Questions[i].Validate(); err != nil {
			if ves, ok := err.(ValidationErrors); ok {
				errs = append(errs, ves...)
			} else {
				errs = append(errs, ValidationError{Field: "questions", Message: err.Error()})
			}
		}
		known[s.Questions[i].ID] = struct{}{}
	}
	for qid := range s.Answers {
		if _, ok := known[qid]; !ok {
			errs = append(errs, ValidationError{
				Field:   "answers",
				Message: fmt.Sprintf("answer references unknown question id %q", qid),
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// QuizResult is the persisted outcome of one submission, consumed later
// by the dashboard read path.
type QuizResult struct {
	ID             string
	QuizID         string
	UserID         string
	CourseID       string
	ScorePercent   int
	CorrectCount   int
	TotalQuestions int
	SubmittedAt    time.Time
}

// NewQuestionData carries one generated question candidate before it is
// validated and persisted into the bank.
type NewQuestionData struct {
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	SubTopicName  string     `json:"sub_topic_name"`
	Difficulty    Difficulty `json:"difficulty"`
}
