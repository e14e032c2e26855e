package domain

import "context"

// QuizRepository defines the interface for quiz-bank persistence.
// GetQuizByID returns (nil, nil) when the quiz does not exist.
type QuizRepository interface {
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetQuizzesByCourse(ctx context.Context, courseID string) ([]Quiz, error)
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	SaveQuestions(ctx context.Context, quizID string, questions []Question) error
	DeleteByCourse(ctx context.Context, courseID string) error
}

// QuizResultRepository defines the interface for persisted submission
// outcomes, the read side of the dashboard.
type QuizResultRepository interface {
	CreateResult(ctx context.Context, result *QuizResult) error
	ListRecentByUser(ctx context.Context, userID, courseID string, limit int) ([]QuizResult, error)
	DeleteByCourse(ctx context.Context, courseID string) error
}

// UserRepository defines the interface for user data persistence.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// TransactionManager runs a function inside a database transaction.
// Repositories pick the transaction up from the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// QuestionGenerationService defines the port for generating question
// candidates for a subtopic. Implementations call an LLM; the batch
// service validates and persists what comes back.
type QuestionGenerationService interface {
	GenerateQuestionCandidates(ctx context.Context, subTopicName string, existingPrompts []string, numQuestions int) ([]*NewQuestionData, error)
}
