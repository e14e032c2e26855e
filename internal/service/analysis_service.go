package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"studyhall/internal/cache"
	"studyhall/internal/domain"
	"studyhall/internal/dto"
	"studyhall/internal/util"

	"go.uber.org/zap"
)

// AnalysisService aggregates persisted learning state into dashboard views.
type AnalysisService interface {
	GetStatusDistribution(ctx context.Context, userID, courseID string) (*dto.StatusDistributionResponse, error)
	GetDashboard(ctx context.Context, userID, courseID string) (*dto.DashboardResponse, error)
}

// analysisService implements AnalysisService
type analysisService struct {
	targetRepo    domain.LearningTargetRepository
	resultRepo    domain.QuizResultRepository
	cache         domain.Cache
	cacheTTL      time.Duration
	recentQuizzes int
	logger        *zap.Logger
}

// NewAnalysisService creates a new instance of analysisService.
// cache may be nil; the service then always reads from the repositories.
func NewAnalysisService(
	targetRepo domain.LearningTargetRepository,
	resultRepo domain.QuizResultRepository,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
	recentQuizzes int,
	logger *zap.Logger,
) AnalysisService {
	if recentQuizzes <= 0 {
		recentQuizzes = 20
	}
	return &analysisService{
		targetRepo:    targetRepo,
		resultRepo:    resultRepo,
		cache:         cacheClient,
		cacheTTL:      cacheTTL,
		recentQuizzes: recentQuizzes,
		logger:        logger,
	}
}

// GetStatusDistribution counts the user's learning targets per status.
func (s *analysisService) GetStatusDistribution(ctx context.Context, userID, courseID string) (*dto.StatusDistributionResponse, error) {
	cacheKey := cache.GenerateCacheKey("analysis", "distribution", userID, courseID)
	if cached := s.readCache(ctx, cacheKey); cached != "" {
		var resp dto.StatusDistributionResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	targets, err := s.targetRepo.ListByUser(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list learning targets", err)
	}

	resp := distributionOf(targets)
	s.writeCache(ctx, cacheKey, resp)
	return resp, nil
}

// GetDashboard assembles the full analytics view. When one of the read
// models is unavailable the rest of the dashboard is still served and the
// response is marked degraded.
func (s *analysisService) GetDashboard(ctx context.Context, userID, courseID string) (*dto.DashboardResponse, error) {
	cacheKey := cache.GenerateCacheKey("analysis", "dashboard", userID, courseID)
	if cached := s.readCache(ctx, cacheKey); cached != "" {
		var resp dto.DashboardResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	resp := &dto.DashboardResponse{
		RecentQuizzes: []dto.RecentQuizSummary{},
		Trend:         []dto.TrendPoint{},
		ScoreHistory:  []dto.ScoreHistoryPoint{},
	}

	targets, targetsErr := s.targetRepo.ListByUser(ctx, userID, courseID)
	if targetsErr != nil {
		s.logger.Warn("Dashboard degraded: learning targets unavailable",
			zap.String("user_id", userID), zap.Error(targetsErr))
		resp.Degraded = true
	} else {
		resp.Distribution = *distributionOf(targets)
	}

	results, resultsErr := s.resultRepo.ListRecentByUser(ctx, userID, courseID, s.recentQuizzes)
	if resultsErr != nil {
		s.logger.Warn("Dashboard degraded: quiz results unavailable",
			zap.String("user_id", userID), zap.Error(resultsErr))
		resp.Degraded = true
	} else {
		fillResultViews(resp, results)
	}

	if targetsErr != nil && resultsErr != nil {
		return nil, domain.NewPersistenceError("Failed to load dashboard data", resultsErr)
	}

	if !resp.Degraded {
		s.writeCache(ctx, cacheKey, resp)
	}
	return resp, nil
}

func distributionOf(targets []domain.LearningTarget) *dto.StatusDistributionResponse {
	resp := &dto.StatusDistributionResponse{Total: len(targets)}
	for _, t := range targets {
		switch t.Status {
		case domain.StatusPending:
			resp.Pending++
		case domain.StatusFailed:
			resp.Failed++
		case domain.StatusMedium:
			resp.Medium++
		case domain.StatusMastered:
			resp.Mastered++
		}
	}
	return resp
}

func fillResultViews(resp *dto.DashboardResponse, results []domain.QuizResult) {
	// Results arrive newest first.
	for _, r := range results {
		resp.RecentQuizzes = append(resp.RecentQuizzes, dto.RecentQuizSummary{
			QuizID:         r.QuizID,
			CourseID:       r.CourseID,
			ScorePercent:   r.ScorePercent,
			TotalQuestions: r.TotalQuestions,
			SubmittedAt:    r.SubmittedAt,
		})
	}

	type bucket struct {
		count int
		sum   int
	}
	byDay := make(map[string]*bucket)
	for _, r := range results {
		day := r.SubmittedAt.UTC().Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.count++
		b.sum += r.ScorePercent
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		b := byDay[day]
		resp.Trend = append(resp.Trend, dto.TrendPoint{
			Date:         day,
			AttemptCount: b.count,
			AvgScore:     util.RoundHalfUp(float64(b.sum) / float64(b.count)),
		})
	}

	// Score history runs oldest to newest for charting.
	for i := len(results) - 1; i >= 0; i-- {
		resp.ScoreHistory = append(resp.ScoreHistory, dto.ScoreHistoryPoint{
			SubmittedAt:  results[i].SubmittedAt,
			ScorePercent: results[i].ScorePercent,
		})
	}
}

func (s *analysisService) readCache(ctx context.Context, key string) string {
	if s.cache == nil {
		return ""
	}
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != domain.ErrCacheMiss {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return val
}

func (s *analysisService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
