package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyhall/internal/domain"
	"studyhall/internal/util"
)

// StringSlice stores a string array as a JSON CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// NoCourseSentinel stands in for an absent course id in learning_targets.
// Oracle treats '' as NULL, which would break the composite unique index.
const NoCourseSentinel = "-"

// CourseIDToDB converts a domain course id to its storage form.
func CourseIDToDB(courseID string) string {
	if courseID == "" {
		return NoCourseSentinel
	}
	return courseID
}

// CourseIDFromDB converts a stored course id back to its domain form.
func CourseIDFromDB(courseID string) string {
	if courseID == NoCourseSentinel {
		return ""
	}
	return courseID
}

type User struct {
	ID                    string         `db:"id"`
	GoogleID              string         `db:"google_id"`
	Email                 string         `db:"email"`
	Name                  sql.NullString `db:"name"`
	ProfilePictureURL     sql.NullString `db:"profile_picture_url"`
	EncryptedAccessToken  sql.NullString `db:"encrypted_access_token"`
	EncryptedRefreshToken sql.NullString `db:"encrypted_refresh_token"`
	TokenExpiresAt        sql.NullTime   `db:"token_expires_at"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
	DeletedAt             sql.NullTime   `db:"deleted_at"`
}

func (User) TableName() string { return "users" }

func UserToDomain(m *User) *domain.User {
	u := &domain.User{
		ID:        m.ID,
		GoogleID:  m.GoogleID,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Name.Valid {
		u.Name = m.Name.String
	}
	if m.ProfilePictureURL.Valid {
		u.ProfilePictureURL = m.ProfilePictureURL.String
	}
	if m.EncryptedAccessToken.Valid {
		u.EncryptedAccessToken = m.EncryptedAccessToken.String
	}
	if m.EncryptedRefreshToken.Valid {
		u.EncryptedRefreshToken = m.EncryptedRefreshToken.String
	}
	if m.TokenExpiresAt.Valid {
		t := m.TokenExpiresAt.Time
		u.TokenExpiresAt = &t
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		u.DeletedAt = &t
	}
	return u
}

func UserFromDomain(u *domain.User) *User {
	m := &User{
		ID:                    u.ID,
		GoogleID:              u.GoogleID,
		Email:                 u.Email,
		Name:                  util.StringToNullString(u.Name),
		ProfilePictureURL:     util.StringToNullString(u.ProfilePictureURL),
		EncryptedAccessToken:  util.StringToNullString(u.EncryptedAccessToken),
		EncryptedRefreshToken: util.StringToNullString(u.EncryptedRefreshToken),
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
	m.TokenExpiresAt = util.TimePtrToNullTime(u.TokenExpiresAt)
	m.DeletedAt = util.TimePtrToNullTime(u.DeletedAt)
	return m
}

type Course struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (Course) TableName() string { return "courses" }

func CourseToDomain(m *Course) *domain.Course {
	c := &domain.Course{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description.Valid {
		c.Description = m.Description.String
	}
	return c
}

func CourseFromDomain(c *domain.Course) *Course {
	return &Course{
		ID:          c.ID,
		Name:        c.Name,
		Description: util.StringToNullString(c.Description),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type Quiz struct {
	ID           string         `db:"id"`
	CourseID     sql.NullString `db:"course_id"`
	Title        string         `db:"title"`
	TimeLimitSec sql.NullInt64  `db:"time_limit_sec"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }

type Question struct {
	ID                 string      `db:"id"`
	QuizID             string      `db:"quiz_id"`
	SubTopicName       string      `db:"sub_topic_name"`
	NormalizedSubTopic string      `db:"normalized_sub_topic"`
	Difficulty         int         `db:"difficulty"`
	Prompt             string      `db:"prompt"`
	Options            StringSlice `db:"options"`
	CorrectAnswer      string      `db:"correct_answer"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (Question) TableName() string { return "questions" }

func QuizToDomain(m *Quiz, questions []Question) *domain.Quiz {
	q := &domain.Quiz{
		ID:        m.ID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		// Never nil: a loaded quiz with zero questions is a legal
		// degenerate case, not a malformed submission.
		Questions: make([]domain.Question, 0, len(questions)),
	}
	if m.CourseID.Valid {
		q.CourseID = m.CourseID.String
	}
	if m.TimeLimitSec.Valid {
		q.TimeLimitSec = int(m.TimeLimitSec.Int64)
	}
	for i := range questions {
		q.Questions = append(q.Questions, QuestionToDomain(&questions[i]))
	}
	return q
}

func QuizFromDomain(q *domain.Quiz) *Quiz {
	m := &Quiz{
		ID:        q.ID,
		CourseID:  util.StringToNullString(q.CourseID),
		Title:     q.Title,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	if q.TimeLimitSec > 0 {
		m.TimeLimitSec = sql.NullInt64{Int64: int64(q.TimeLimitSec), Valid: true}
	}
	return m
}

func QuestionToDomain(m *Question) domain.Question {
	return domain.Question{
		ID:                 m.ID,
		QuizID:             m.QuizID,
		SubTopicName:       m.SubTopicName,
		NormalizedSubTopic: m.NormalizedSubTopic,
		Difficulty:         domain.DifficultyFromInt(m.Difficulty),
		Prompt:             m.Prompt,
		Options:            m.Options,
		CorrectAnswer:      m.CorrectAnswer,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func QuestionFromDomain(q *domain.Question) *Question {
	return &Question{
		ID:                 q.ID,
		QuizID:             q.QuizID,
		SubTopicName:       q.SubTopicName,
		NormalizedSubTopic: q.SubTopicKey(),
		Difficulty:         domain.DifficultyToInt(q.Difficulty),
		Prompt:             q.Prompt,
		Options:            StringSlice(q.Options),
		CorrectAnswer:      q.CorrectAnswer,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

type QuizResult struct {
	ID             string         `db:"id"`
	QuizID         string         `db:"quiz_id"`
	UserID         string         `db:"user_id"`
	CourseID       sql.NullString `db:"course_id"`
	ScorePercent   int            `db:"score_percent"`
	CorrectCount   int            `db:"correct_count"`
	TotalQuestions int            `db:"total_questions"`
	SubmittedAt    time.Time      `db:"submitted_at"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (QuizResult) TableName() string { return "quiz_results" }

func QuizResultToDomain(m *QuizResult) *domain.QuizResult {
	r := &domain.QuizResult{
		ID:             m.ID,
		QuizID:         m.QuizID,
		UserID:         m.UserID,
		ScorePercent:   m.ScorePercent,
		CorrectCount:   m.CorrectCount,
		TotalQuestions: m.TotalQuestions,
		SubmittedAt:    m.SubmittedAt,
	}
	if m.CourseID.Valid {
		r.CourseID = m.CourseID.String
	}
	return r
}

func QuizResultFromDomain(r *domain.QuizResult) *QuizResult {
	return &QuizResult{
		ID:             r.ID,
		QuizID:         r.QuizID,
		UserID:         r.UserID,
		CourseID:       util.StringToNullString(r.CourseID),
		ScorePercent:   r.ScorePercent,
		CorrectCount:   r.CorrectCount,
		TotalQuestions: r.TotalQuestions,
		SubmittedAt:    r.SubmittedAt,
	}
}

type LearningTarget struct {
	ID                 string        `db:"id"`
	UserID             string        `db:"user_id"`
	CourseID           string        `db:"course_id"`
	SubTopicName       string        `db:"sub_topic_name"`
	NormalizedSubTopic string        `db:"normalized_sub_topic"`
	Status             string        `db:"status"`
	FailCount          int           `db:"fail_count"`
	MediumCount        int           `db:"medium_count"`
	SuccessCount       int           `db:"success_count"`
	LastAttempt        sql.NullTime  `db:"last_attempt"`
	LastAttemptScore   sql.NullInt64 `db:"last_attempt_score"`
	IsNewTopic         int           `db:"is_new_topic"`
	Version            int64         `db:"version"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

func (LearningTarget) TableName() string { return "learning_targets" }

func LearningTargetToDomain(m *LearningTarget) *domain.LearningTarget {
	t := &domain.LearningTarget{
		ID:                 m.ID,
		UserID:             m.UserID,
		CourseID:           CourseIDFromDB(m.CourseID),
		SubTopicName:       m.SubTopicName,
		NormalizedSubTopic: m.NormalizedSubTopic,
		Status:             domain.TargetStatus(m.Status),
		FailCount:          m.FailCount,
		MediumCount:        m.MediumCount,
		SuccessCount:       m.SuccessCount,
		IsNewTopic:         m.IsNewTopic != 0,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.LastAttempt.Valid {
		at := m.LastAttempt.Time
		t.LastAttempt = &at
	}
	if m.LastAttemptScore.Valid {
		score := int(m.LastAttemptScore.Int64)
		t.LastAttemptScore = &score
	}
	return t
}

func LearningTargetFromDomain(t *domain.LearningTarget) *LearningTarget {
	m := &LearningTarget{
		ID:                 t.ID,
		UserID:             t.UserID,
		CourseID:           CourseIDToDB(t.CourseID),
		SubTopicName:       t.SubTopicName,
		NormalizedSubTopic: t.NormalizedSubTopic,
		Status:             string(t.Status),
		FailCount:          t.FailCount,
		MediumCount:        t.MediumCount,
		SuccessCount:       t.SuccessCount,
		Version:            t.Version,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.IsNewTopic {
		m.IsNewTopic = 1
	}
	m.LastAttempt = util.TimePtrToNullTime(t.LastAttempt)
	m.LastAttemptScore = util.IntPtrToNullInt64(t.LastAttemptScore)
	return m
}
