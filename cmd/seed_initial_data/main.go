package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"studyhall/cmd/seed_initial_data/internal/seedmodels"
	"studyhall/database"
	"studyhall/internal/config"
	"studyhall/internal/domain"
	"studyhall/internal/logger"
	"studyhall/internal/repository"
	"studyhall/internal/util"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_courses.json"

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// If logger is not initialized yet, use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Successfully connected to Oracle database.")

	log.Info("Loading seed data from file", zap.String("path", seedFilePath))
	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seedCourses []seedmodels.SeedCourse
	if err := json.Unmarshal(byteValue, &seedCourses); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data", zap.Int("courses_loaded", len(seedCourses)))

	clock := domain.SystemClock{}
	courseRepo := repository.NewSQLXCourseRepository(db, clock)
	quizRepo := repository.NewSQLXQuizRepository(db, clock)
	txManager := repository.NewTransactionManagerAdapter(db)

	existing, err := courseRepo.ListCourses(ctx)
	if err != nil {
		log.Fatal("Failed to list existing courses", zap.Error(err))
	}
	existingByName := make(map[string]string, len(existing))
	for _, c := range existing {
		existingByName[c.Name] = c.ID
	}

	for _, sc := range seedCourses {
		if id, ok := existingByName[sc.Name]; ok {
			log.Info("Course exists, skipping.", zap.String("id", id), zap.String("name", sc.Name))
			continue
		}
		err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return seedCourseData(txCtx, courseRepo, quizRepo, clock, log, sc)
		})
		if err != nil {
			log.Error("Error seeding course, transaction rolled back", zap.String("course", sc.Name), zap.Error(err))
		}
	}
	log.Info("Initial data seeding process completed.")
}

func seedCourseData(
	ctx context.Context,
	courseRepo domain.CourseRepository,
	quizRepo domain.QuizRepository,
	clock domain.Clock,
	log *zap.Logger,
	seedCourse seedmodels.SeedCourse,
) error {
	log.Info("Processing course", zap.String("name", seedCourse.Name))

	course := domain.NewCourse(seedCourse.Name, seedCourse.Description, clock.Now())
	course.ID = util.NewULID()
	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid seed course %s: %w", seedCourse.Name, err)
	}
	if err := courseRepo.CreateCourse(ctx, course); err != nil {
		return fmt.Errorf("failed to save course %s: %w", seedCourse.Name, err)
	}
	log.Info("Created course.", zap.String("id", course.ID), zap.String("name", course.Name))

	for _, seedQuiz := range seedCourse.Quizzes {
		log.Info("Processing quiz", zap.String("title", firstN(seedQuiz.Title, 40)), zap.String("course", course.Name))

		quiz := domain.NewQuiz(course.ID, seedQuiz.Title, clock.Now())
		quiz.ID = util.NewULID()
		quiz.TimeLimitSec = seedQuiz.TimeLimitSec
		for _, sq := range seedQuiz.Questions {
			quiz.Questions = append(quiz.Questions, domain.Question{
				ID:                 util.NewULID(),
				QuizID:             quiz.ID,
				SubTopicName:       sq.SubTopicName,
				NormalizedSubTopic: domain.NormalizeSubTopicName(sq.SubTopicName),
				Difficulty:         domain.Difficulty(sq.Difficulty),
				Prompt:             sq.Prompt,
				Options:            sq.Options,
				CorrectAnswer:      sq.CorrectAnswer,
			})
		}
		if err := quiz.Validate(); err != nil {
			return fmt.Errorf("invalid seed quiz '%s': %w", firstN(seedQuiz.Title, 40), err)
		}
		if err := quizRepo.SaveQuiz(ctx, quiz); err != nil {
			return fmt.Errorf("failed to save quiz '%s': %w", firstN(seedQuiz.Title, 40), err)
		}
		log.Info("Successfully created quiz.", zap.String("id", quiz.ID), zap.Int("questions", len(quiz.Questions)))
	}
	return nil
}
