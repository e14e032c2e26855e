package dto

// QuestionResponse represents a question in the API response.
// The correct answer is never exposed on the read path.
type QuestionResponse struct {
	ID           string   `json:"id"`
	SubTopicName string   `json:"sub_topic_name"`
	Difficulty   string   `json:"difficulty"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID           string             `json:"id"`
	CourseID     string             `json:"course_id,omitempty"`
	Title        string             `json:"title"`
	TimeLimitSec int                `json:"time_limit_sec,omitempty"`
	Questions    []QuestionResponse `json:"questions"`
}

// QuizSummaryResponse lists quizzes without their questions.
type QuizSummaryResponse struct {
	ID            string `json:"id"`
	CourseID      string `json:"course_id,omitempty"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// SubmitQuizRequest represents a user's submitted answers
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers    map[string]string `json:"answers"`
	ElapsedSec int               `json:"elapsed_sec,omitempty"`
}

// SubTopicPerformanceResponse is the per-subtopic breakdown of a scored quiz.
type SubTopicPerformanceResponse struct {
	SubTopicName  string `json:"sub_topic_name"`
	ScorePercent  int    `json:"score_percent"`
	Status        string `json:"status"`
	QuestionCount int    `json:"question_count"`
	CorrectCount  int    `json:"correct_count"`
}

// DifficultyPerformanceResponse is the per-difficulty breakdown of a scored quiz.
type DifficultyPerformanceResponse struct {
	Count        int `json:"count"`
	Correct      int `json:"correct"`
	ScorePercent int `json:"score_percent"`
}

// CategorizationResponse groups subtopic display names by outcome.
type CategorizationResponse struct {
	Mastered []string `json:"mastered"`
	Medium   []string `json:"medium"`
	Failed   []string `json:"failed"`
}

// SubmitQuizResponse represents the scored result in the API response
// @Description Response body for a scored quiz submission
type SubmitQuizResponse struct {
	QuizID                  string                                   `json:"quiz_id"`
	OverallScorePercent     int                                      `json:"overall_score_percent"`
	CorrectCount            int                                      `json:"correct_count"`
	TotalQuestions          int                                      `json:"total_questions"`
	PerformanceBySubTopic   map[string]SubTopicPerformanceResponse   `json:"performance_by_sub_topic"`
	PerformanceByDifficulty map[string]DifficultyPerformanceResponse `json:"performance_by_difficulty"`
	Categorization          CategorizationResponse                   `json:"categorization"`
	FailedSubTopics         []string                                 `json:"failed_sub_topics,omitempty"`
}

// CourseResponse represents a course in the API response
type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateCourseRequest represents the request body for creating a course.
// @Description Request body for creating a course
type CreateCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
