package service

import (
	"context"

	"studyhall/internal/domain"
	"studyhall/internal/dto"
	"studyhall/internal/util"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	GetQuizzesByCourse(ctx context.Context, courseID string) ([]dto.QuizSummaryResponse, error)
	SubmitQuiz(ctx context.Context, quizID, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizRepo      domain.QuizRepository
	resultRepo    domain.QuizResultRepository
	targetUpdater TargetUpdater
	clock         domain.Clock
	logger        *zap.Logger
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizRepo domain.QuizRepository,
	resultRepo domain.QuizResultRepository,
	targetUpdater TargetUpdater,
	clock domain.Clock,
	logger *zap.Logger,
) QuizService {
	return &quizService{
		quizRepo:      quizRepo,
		resultRepo:    resultRepo,
		targetUpdater: targetUpdater,
		clock:         clock,
		logger:        logger,
	}
}

// GetQuiz implements QuizService. Correct answers stay server-side.
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	resp := &dto.QuizResponse{
		ID:           quiz.ID,
		CourseID:     quiz.CourseID,
		Title:        quiz.Title,
		TimeLimitSec: quiz.TimeLimitSec,
		Questions:    make([]dto.QuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:           q.ID,
			SubTopicName: q.SubTopicName,
			Difficulty:   string(q.Difficulty),
			Prompt:       q.Prompt,
			Options:      q.Options,
		})
	}
	return resp, nil
}

// GetQuizzesByCourse implements QuizService
func (s *quizService) GetQuizzesByCourse(ctx context.Context, courseID string) ([]dto.QuizSummaryResponse, error) {
	quizzes, err := s.quizRepo.GetQuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quizzes by course", err)
	}

	summaries := make([]dto.QuizSummaryResponse, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, dto.QuizSummaryResponse{
			ID:            q.ID,
			CourseID:      q.CourseID,
			Title:         q.Title,
			QuestionCount: len(q.Questions),
		})
	}
	return summaries, nil
}

// SubmitQuiz scores a submission, records the result and folds the outcome
// into the user's learning targets. Target update failures degrade into
// failed_sub_topics on the response instead of failing the submission.
func (s *quizService) SubmitQuiz(ctx context.Context, quizID, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]string{}
	}

	// An existing quiz with no questions scores to zero; only a nil
	// questions slice on the submission itself is malformed.
	questions := quiz.Questions
	if questions == nil {
		questions = []domain.Question{}
	}

	submittedAt := s.clock.Now()
	submission := &domain.QuizSubmission{
		QuizID:      quiz.ID,
		UserID:      userID,
		CourseID:    quiz.CourseID,
		Questions:   questions,
		Answers:     answers,
		ElapsedSec:  req.ElapsedSec,
		SubmittedAt: submittedAt,
	}
	if err := submission.Validate(); err != nil {
		// Rejected before scoring; nothing is persisted.
		return nil, err
	}

	scored := domain.ComputeScore(submission)

	result := &domain.QuizResult{
		ID:             util.NewULID(),
		QuizID:         scored.QuizID,
		UserID:         scored.UserID,
		CourseID:       scored.CourseID,
		ScorePercent:   scored.OverallScorePercent,
		CorrectCount:   scored.CorrectCount,
		TotalQuestions: scored.TotalQuestions,
		SubmittedAt:    submittedAt,
	}
	if err := s.resultRepo.CreateResult(ctx, result); err != nil {
		// The scored result is still returned; the dashboard will miss
		// this attempt until backfilled.
		s.logger.Error("Failed to persist quiz result",
			zap.String("quiz_id", quizID),
			zap.String("user_id", userID),
			zap.Error(err))
	}

	updatedTargets, failedSubTopics := s.targetUpdater.ApplyScoredQuiz(ctx, scored, submittedAt)
	s.logger.Debug("Learning targets applied",
		zap.String("quiz_id", quizID),
		zap.String("user_id", userID),
		zap.Int("updated", len(updatedTargets)),
		zap.Int("failed", len(failedSubTopics)))

	return buildSubmitResponse(scored, failedSubTopics), nil
}

func buildSubmitResponse(scored *domain.ScoredQuiz, failedSubTopics []string) *dto.SubmitQuizResponse {
	resp := &dto.SubmitQuizResponse{
		QuizID:                  scored.QuizID,
		OverallScorePercent:     scored.OverallScorePercent,
		CorrectCount:            scored.CorrectCount,
		TotalQuestions:          scored.TotalQuestions,
		PerformanceBySubTopic:   make(map[string]dto.SubTopicPerformanceResponse, len(scored.PerformanceBySubTopic)),
		PerformanceByDifficulty: make(map[string]dto.DifficultyPerformanceResponse, len(scored.PerformanceByDifficulty)),
		Categorization: dto.CategorizationResponse{
			Mastered: scored.Categorization.Mastered,
			Medium:   scored.Categorization.Medium,
			Failed:   scored.Categorization.Failed,
		},
		FailedSubTopics: failedSubTopics,
	}
	for key, perf := range scored.PerformanceBySubTopic {
		resp.PerformanceBySubTopic[key] = dto.SubTopicPerformanceResponse{
			SubTopicName:  perf.SubTopicName,
			ScorePercent:  perf.ScorePercent,
			Status:        string(perf.Status),
			QuestionCount: perf.QuestionCount,
			CorrectCount:  perf.CorrectCount,
		}
	}
	for diff, perf := range scored.PerformanceByDifficulty {
		resp.PerformanceByDifficulty[string(diff)] = dto.DifficultyPerformanceResponse{
			Count:        perf.Count,
			Correct:      perf.Correct,
			ScorePercent: perf.ScorePercent,
		}
	}
	return resp
}
