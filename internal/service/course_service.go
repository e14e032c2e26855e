package service

import (
	"context"

	"studyhall/internal/domain"
	"studyhall/internal/dto"
	"studyhall/internal/util"

	"go.uber.org/zap"
)

// CourseService defines the interface for course management operations.
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error
}

// courseService implements CourseService
type courseService struct {
	courseRepo domain.CourseRepository
	quizRepo   domain.QuizRepository
	resultRepo domain.QuizResultRepository
	targetRepo domain.LearningTargetRepository
	txManager  domain.TransactionManager
	clock      domain.Clock
	logger     *zap.Logger
}

// NewCourseService creates a new instance of courseService
func NewCourseService(
	courseRepo domain.CourseRepository,
	quizRepo domain.QuizRepository,
	resultRepo domain.QuizResultRepository,
	targetRepo domain.LearningTargetRepository,
	txManager domain.TransactionManager,
	clock domain.Clock,
	logger *zap.Logger,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		targetRepo: targetRepo,
		txManager:  txManager,
		clock:      clock,
		logger:     logger,
	}
}

// CreateCourse implements CourseService
func (s *courseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := domain.NewCourse(req.Name, req.Description, s.clock.Now())
	course.ID = util.NewULID()
	if err := course.Validate(); err != nil {
		return nil, err
	}

	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, domain.NewPersistenceError("Failed to create course", err)
	}

	return courseToResponse(course), nil
}

// GetCourse implements CourseService
func (s *courseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to get course", err)
	}
	if course == nil {
		return nil, domain.NewNotFoundError("Course not found: "+id)
	}
	return courseToResponse(course), nil
}

// ListCourses implements CourseService
func (s *courseService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list courses", err)
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, *courseToResponse(&courses[i]))
	}
	return responses, nil
}

// DeleteCourse removes a course and everything derived from it: quizzes,
// questions, quiz results and learning targets, in one transaction.
func (s *courseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("Failed to get course", err)
	}
	if course == nil {
		return domain.NewNotFoundError("Course not found: "+id)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.DeleteByCourse(txCtx, id); err != nil {
			return err
		}
		if err := s.resultRepo.DeleteByCourse(txCtx, id); err != nil {
			return err
		}
		if err := s.targetRepo.DeleteByCourse(txCtx, id); err != nil {
			return err
		}
		return s.courseRepo.DeleteCourse(txCtx, id)
	})
	if err != nil {
		return domain.NewPersistenceError("Failed to delete course", err)
	}

	s.logger.Info("Deleted course and derived data", zap.String("course_id", id))
	return nil
}

func courseToResponse(course *domain.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
	}
}
