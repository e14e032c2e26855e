package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyhall/internal/domain"
	"studyhall/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCourseService(courseRepo *MockCourseRepository, quizRepo *MockQuizRepository,
	resultRepo *MockQuizResultRepository, targetRepo *MockLearningTargetRepository) CourseService {
	return NewCourseService(courseRepo, quizRepo, resultRepo, targetRepo,
		stubTransactionManager{}, testClock{t: time.Now()}, zap.NewNop())
}

func TestCreateCourse_Validates(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	svc := newTestCourseService(courseRepo, new(MockQuizRepository), new(MockQuizResultRepository), new(MockLearningTargetRepository))

	_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Name: ""})
	require.Error(t, err)

	var vErrs domain.ValidationErrors
	assert.True(t, errors.As(err, &vErrs))
	courseRepo.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything)
}

func TestCreateCourse_PersistsAndReturnsID(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("CreateCourse", mock.Anything, mock.MatchedBy(func(c *domain.Course) bool {
		return c.Name == "Go Fundamentals" && c.ID != ""
	})).Return(nil)

	svc := newTestCourseService(courseRepo, new(MockQuizRepository), new(MockQuizResultRepository), new(MockLearningTargetRepository))
	resp, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Name: "Go Fundamentals"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	courseRepo.AssertExpectations(t)
}

func TestDeleteCourse_CascadesInsideTransaction(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	quizRepo := new(MockQuizRepository)
	resultRepo := new(MockQuizResultRepository)
	targetRepo := new(MockLearningTargetRepository)

	courseRepo.On("GetCourseByID", mock.Anything, "course1").
		Return(&domain.Course{ID: "course1", Name: "Go"}, nil)
	quizRepo.On("DeleteByCourse", mock.Anything, "course1").Return(nil)
	resultRepo.On("DeleteByCourse", mock.Anything, "course1").Return(nil)
	targetRepo.On("DeleteByCourse", mock.Anything, "course1").Return(nil)
	courseRepo.On("DeleteCourse", mock.Anything, "course1").Return(nil)

	svc := newTestCourseService(courseRepo, quizRepo, resultRepo, targetRepo)
	require.NoError(t, svc.DeleteCourse(context.Background(), "course1"))

	quizRepo.AssertExpectations(t)
	resultRepo.AssertExpectations(t)
	targetRepo.AssertExpectations(t)
	courseRepo.AssertExpectations(t)
}

func TestDeleteCourse_NotFound(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("GetCourseByID", mock.Anything, "ghost").Return(nil, nil)

	svc := newTestCourseService(courseRepo, new(MockQuizRepository), new(MockQuizResultRepository), new(MockLearningTargetRepository))
	err := svc.DeleteCourse(context.Background(), "ghost")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	courseRepo.AssertNotCalled(t, "DeleteCourse", mock.Anything, mock.Anything)
}

func TestDeleteCourse_AbortsCascadeOnFailure(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	quizRepo := new(MockQuizRepository)

	courseRepo.On("GetCourseByID", mock.Anything, "course1").
		Return(&domain.Course{ID: "course1", Name: "Go"}, nil)
	quizRepo.On("DeleteByCourse", mock.Anything, "course1").
		Return(domain.NewPersistenceError("db down", nil))

	svc := newTestCourseService(courseRepo, quizRepo, new(MockQuizResultRepository), new(MockLearningTargetRepository))
	err := svc.DeleteCourse(context.Background(), "course1")
	require.Error(t, err)
	courseRepo.AssertNotCalled(t, "DeleteCourse", mock.Anything, mock.Anything)
}
