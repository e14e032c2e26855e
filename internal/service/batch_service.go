package service

import (
	"context"
	"fmt"

	"studyhall/internal/domain"
	"studyhall/internal/util"

	"go.uber.org/zap"
)

// BatchService generates review material for subtopics users keep failing.
type BatchService interface {
	// GenerateReviewQuiz builds one new quiz for the course from
	// LLM-generated questions covering its failed subtopics. Returns the
	// new quiz ID, or "" when there was nothing to review.
	GenerateReviewQuiz(ctx context.Context, courseID string, questionsPerTopic int) (string, error)
}

// batchService implements BatchService
type batchService struct {
	quizRepo    domain.QuizRepository
	targetRepo  domain.LearningTargetRepository
	questionGen domain.QuestionGenerationService
	clock       domain.Clock
	logger      *zap.Logger
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(
	quizRepo domain.QuizRepository,
	targetRepo domain.LearningTargetRepository,
	questionGen domain.QuestionGenerationService,
	clock domain.Clock,
	logger *zap.Logger,
) BatchService {
	return &batchService{
		quizRepo:    quizRepo,
		targetRepo:  targetRepo,
		questionGen: questionGen,
		clock:       clock,
		logger:      logger,
	}
}

// GenerateReviewQuiz implements BatchService
func (s *batchService) GenerateReviewQuiz(ctx context.Context, courseID string, questionsPerTopic int) (string, error) {
	s.logger.Info("Starting review quiz generation", zap.String("course_id", courseID))

	if questionsPerTopic <= 0 {
		questionsPerTopic = 3
	}

	failedTargets, err := s.targetRepo.ListByCourseStatus(ctx, courseID, domain.StatusFailed)
	if err != nil {
		return "", domain.NewPersistenceError("Failed to list failed learning targets", err)
	}
	if len(failedTargets) == 0 {
		s.logger.Info("No failed subtopics in course, nothing to generate", zap.String("course_id", courseID))
		return "", nil
	}

	// Targets are per user; generation is per subtopic.
	subTopics := map[string]string{}
	for _, t := range failedTargets {
		if _, seen := subTopics[t.NormalizedSubTopic]; !seen {
			subTopics[t.NormalizedSubTopic] = t.SubTopicName
		}
	}

	existingPrompts, err := s.collectExistingPrompts(ctx, courseID)
	if err != nil {
		s.logger.Warn("Could not collect existing prompts, generating without them",
			zap.String("course_id", courseID), zap.Error(err))
	}

	now := s.clock.Now()
	quiz := domain.NewQuiz(courseID, fmt.Sprintf("Review %s", now.Format("2006-01-02")), now)
	quiz.ID = util.NewULID()

	for _, displayName := range subTopics {
		candidates, genErr := s.questionGen.GenerateQuestionCandidates(ctx, displayName, existingPrompts, questionsPerTopic)
		if genErr != nil {
			s.logger.Error("Question generation failed for subtopic",
				zap.String("sub_topic", displayName), zap.Error(genErr))
			continue
		}

		for _, c := range candidates {
			question := domain.Question{
				ID:            util.NewULID(),
				SubTopicName:  c.SubTopicName,
				Difficulty:    domain.Difficulty(c.Difficulty),
				Prompt:        c.Prompt,
				Options:       c.Options,
				CorrectAnswer: c.CorrectAnswer,
			}
			if vErr := question.Validate(); vErr != nil {
				s.logger.Warn("Discarding invalid generated question",
					zap.String("sub_topic", displayName), zap.Error(vErr))
				continue
			}
			quiz.Questions = append(quiz.Questions, question)
		}
	}

	if len(quiz.Questions) == 0 {
		s.logger.Warn("Generation produced no usable questions", zap.String("course_id", courseID))
		return "", nil
	}

	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return "", domain.NewPersistenceError("Failed to save review quiz", err)
	}

	s.logger.Info("Generated review quiz",
		zap.String("course_id", courseID),
		zap.String("quiz_id", quiz.ID),
		zap.Int("question_count", len(quiz.Questions)))
	return quiz.ID, nil
}

func (s *batchService) collectExistingPrompts(ctx context.Context, courseID string) ([]string, error) {
	quizzes, err := s.quizRepo.GetQuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var prompts []string
	for _, q := range quizzes {
		full, err := s.quizRepo.GetQuizByID(ctx, q.ID)
		if err != nil || full == nil {
			continue
		}
		for _, question := range full.Questions {
			prompts = append(prompts, question.Prompt)
		}
	}
	return prompts, nil
}
