package service

import (
	"context"
	"sync"
	"time"

	"studyhall/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) SaveQuestions(ctx context.Context, quizID string, questions []domain.Question) error {
	args := m.Called(ctx, quizID, questions)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

var _ domain.QuizRepository = (*MockQuizRepository)(nil)

// --- MockQuizResultRepository ---
type MockQuizResultRepository struct {
	mock.Mock
}

func (m *MockQuizResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizResultRepository) ListRecentByUser(ctx context.Context, userID, courseID string, limit int) ([]domain.QuizResult, error) {
	args := m.Called(ctx, userID, courseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

var _ domain.QuizResultRepository = (*MockQuizResultRepository)(nil)

// --- MockLearningTargetRepository ---
type MockLearningTargetRepository struct {
	mock.Mock
}

func (m *MockLearningTargetRepository) FindByKey(ctx context.Context, userID, courseID, normalizedSubTopic string) (*domain.LearningTarget, error) {
	args := m.Called(ctx, userID, courseID, normalizedSubTopic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningTarget), args.Error(1)
}

func (m *MockLearningTargetRepository) ListByUser(ctx context.Context, userID, courseID string) ([]domain.LearningTarget, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LearningTarget), args.Error(1)
}

func (m *MockLearningTargetRepository) ListByCourseStatus(ctx context.Context, courseID string, status domain.TargetStatus) ([]domain.LearningTarget, error) {
	args := m.Called(ctx, courseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LearningTarget), args.Error(1)
}

func (m *MockLearningTargetRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockLearningTargetRepository) UpsertTransactional(ctx context.Context, userID, courseID, subTopicName string, update func(*domain.LearningTarget) error) (*domain.LearningTarget, error) {
	args := m.Called(ctx, userID, courseID, subTopicName, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningTarget), args.Error(1)
}

var _ domain.LearningTargetRepository = (*MockLearningTargetRepository)(nil)

// --- MockCourseRepository ---
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) CreateCourse(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetCourseByID(ctx context.Context, id string) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ domain.CourseRepository = (*MockCourseRepository)(nil)

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ domain.Cache = (*MockCache)(nil)

// --- MockQuestionGenerationService ---
type MockQuestionGenerationService struct {
	mock.Mock
}

func (m *MockQuestionGenerationService) GenerateQuestionCandidates(ctx context.Context, subTopicName string, existingPrompts []string, numQuestions int) ([]*domain.NewQuestionData, error) {
	args := m.Called(ctx, subTopicName, existingPrompts, numQuestions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NewQuestionData), args.Error(1)
}

var _ domain.QuestionGenerationService = (*MockQuestionGenerationService)(nil)

// --- stubTransactionManager runs the function without a real transaction ---
type stubTransactionManager struct{}

func (stubTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ domain.TransactionManager = (*stubTransactionManager)(nil)

// --- fakeTargetRepo is an in-memory versioned LearningTargetRepository.
// UpsertTransactional mirrors the optimistic concurrency of the real
// implementation: apply the update to a copy, then install it only if the
// stored version is unchanged. ---
type fakeTargetRepo struct {
	mu       sync.Mutex
	targets  map[string]*domain.LearningTarget
	conflict func(attempt int) bool // optional conflict injection per call
	calls    int
}

func newFakeTargetRepo() *fakeTargetRepo {
	return &fakeTargetRepo{targets: map[string]*domain.LearningTarget{}}
}

func (f *fakeTargetRepo) key(userID, courseID, normalized string) string {
	return userID + "/" + courseID + "/" + normalized
}

func (f *fakeTargetRepo) FindByKey(ctx context.Context, userID, courseID, normalizedSubTopic string) (*domain.LearningTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.targets[f.key(userID, courseID, normalizedSubTopic)]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTargetRepo) ListByUser(ctx context.Context, userID, courseID string) ([]domain.LearningTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LearningTarget
	for _, t := range f.targets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTargetRepo) ListByCourseStatus(ctx context.Context, courseID string, status domain.TargetStatus) ([]domain.LearningTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LearningTarget
	for _, t := range f.targets {
		if t.CourseID == courseID && t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTargetRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, t := range f.targets {
		if t.CourseID == courseID {
			delete(f.targets, k)
		}
	}
	return nil
}

func (f *fakeTargetRepo) UpsertTransactional(ctx context.Context, userID, courseID, subTopicName string, update func(*domain.LearningTarget) error) (*domain.LearningTarget, error) {
	normalized := domain.NormalizeSubTopicName(subTopicName)
	key := f.key(userID, courseID, normalized)

	f.mu.Lock()
	f.calls++
	call := f.calls
	conflict := f.conflict != nil && f.conflict(call)
	stored, exists := f.targets[key]
	var working domain.LearningTarget
	if exists {
		working = *stored
	}
	f.mu.Unlock()

	if conflict {
		return nil, domain.NewConcurrencyConflictError(key, nil)
	}

	var target *domain.LearningTarget
	if exists {
		target = &working
	} else {
		target = domain.NewLearningTarget(userID, courseID, subTopicName, time.Now())
		target.ID = key
	}
	oldVersion := target.Version
	if err := update(target); err != nil {
		return nil, err
	}
	target.Version = oldVersion + 1

	f.mu.Lock()
	defer f.mu.Unlock()
	current, stillExists := f.targets[key]
	if exists {
		if !stillExists || current.Version != oldVersion {
			return nil, domain.NewConcurrencyConflictError(key, nil)
		}
	} else if stillExists {
		// Another writer created the row first.
		return nil, domain.NewConcurrencyConflictError(key, nil)
	}
	cp := *target
	f.targets[key] = &cp
	return target, nil
}

var _ domain.LearningTargetRepository = (*fakeTargetRepo)(nil)
