package seedmodels

// SeedQuestion defines the structure for a question in the JSON seed file.
type SeedQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	SubTopicName  string   `json:"sub_topic_name"`
	Difficulty    string   `json:"difficulty"`
}

// SeedQuiz defines the structure for a quiz in the JSON seed file.
type SeedQuiz struct {
	Title        string         `json:"title"`
	TimeLimitSec int            `json:"time_limit_sec"`
	Questions    []SeedQuestion `json:"questions"`
}

// SeedCourse defines the structure for a course in the JSON seed file.
type SeedCourse struct {
	Name        string     `json:"course_name"`
	Description string     `json:"course_description"`
	Quizzes     []SeedQuiz `json:"quizzes"`
}
