package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"studyhall/internal/adapter/questiongen"
	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/domain"
	"studyhall/internal/logger"
	"studyhall/internal/repository"
	"studyhall/internal/service"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const questionsPerTopic = 2

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Review quiz batch starting up...")

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Successfully connected to Oracle database.")

	clock := domain.SystemClock{}
	quizRepo := repository.NewSQLXQuizRepository(db, clock)
	targetRepo := repository.NewSQLXLearningTargetRepository(db, clock)
	courseRepo := repository.NewSQLXCourseRepository(db, clock)
	log.Info("Initialized repositories.")

	ollamaHTTPClient := &http.Client{Timeout: 120 * time.Second}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.LLM.ServerURL),
		ollama.WithModel(cfg.LLM.Model),
		ollama.WithHTTPClient(ollamaHTTPClient),
	)
	if err != nil {
		log.Fatal("Failed to create LLM client", zap.Error(err))
	}
	questionGen := questiongen.NewOllamaQuestionGenerator(llm)
	log.Info("Initialized question generator.", zap.String("model", cfg.LLM.Model))

	batchSvc := service.NewBatchService(quizRepo, targetRepo, questionGen, clock, log)

	ctx := context.Background()
	courses, err := courseRepo.ListCourses(ctx)
	if err != nil {
		log.Fatal("Failed to list courses", zap.Error(err))
	}

	generated := 0
	for _, course := range courses {
		quizID, err := batchSvc.GenerateReviewQuiz(ctx, course.ID, questionsPerTopic)
		if err != nil {
			log.Error("Review quiz generation failed for course",
				zap.String("course_id", course.ID),
				zap.String("course_name", course.Name),
				zap.Error(err))
			continue
		}
		if quizID == "" {
			log.Info("No failed topics to review, skipping course",
				zap.String("course_id", course.ID),
				zap.String("course_name", course.Name))
			continue
		}
		generated++
		log.Info("Generated review quiz",
			zap.String("course_id", course.ID),
			zap.String("quiz_id", quizID))
	}

	log.Info("Review quiz batch finished.", zap.Int("courses_processed", len(courses)), zap.Int("quizzes_generated", generated))
}
