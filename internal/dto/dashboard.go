package dto

import "time"

// StatusDistributionResponse counts learning targets by mastery status.
// @Description Distribution of learning targets across statuses
type StatusDistributionResponse struct {
	Pending  int `json:"pending"`
	Failed   int `json:"failed"`
	Medium   int `json:"medium"`
	Mastered int `json:"mastered"`
	Total    int `json:"total"`
}

// RecentQuizSummary is one row of the dashboard's recent quiz list.
type RecentQuizSummary struct {
	QuizID         string    `json:"quiz_id"`
	CourseID       string    `json:"course_id,omitempty"`
	ScorePercent   int       `json:"score_percent"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// TrendPoint aggregates scores for a single day.
type TrendPoint struct {
	Date         string `json:"date"` // YYYY-MM-DD
	AttemptCount int    `json:"attempt_count"`
	AvgScore     int    `json:"avg_score"`
}

// ScoreHistoryPoint is one attempt on the score timeline.
type ScoreHistoryPoint struct {
	SubmittedAt  time.Time `json:"submitted_at"`
	ScorePercent int       `json:"score_percent"`
}

// DashboardResponse aggregates a user's learning analytics.
// @Description Dashboard analytics for a user
type DashboardResponse struct {
	Distribution  StatusDistributionResponse `json:"distribution"`
	RecentQuizzes []RecentQuizSummary        `json:"recent_quizzes"`
	Trend         []TrendPoint               `json:"trend"`
	ScoreHistory  []ScoreHistoryPoint        `json:"score_history"`
	Degraded      bool                       `json:"degraded,omitempty"`
}
