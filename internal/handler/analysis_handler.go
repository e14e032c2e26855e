package handler

import (
	"studyhall/internal/domain"
	"studyhall/internal/middleware"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AnalysisHandler serves the learning analytics endpoints.
type AnalysisHandler struct {
	service service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler instance
func NewAnalysisHandler(service service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// GetStatusDistribution godoc
// @Summary Learning target status distribution
// @Description Counts the authenticated user's learning targets per mastery status
// @Tags dashboard
// @Accept json
// @Produce json
// @Param course_id query string false "Scope to a course"
// @Success 200 {object} dto.StatusDistributionResponse
// @Security BearerAuth
// @Router /dashboard/distribution [get]
func (h *AnalysisHandler) GetStatusDistribution(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return domain.NewError(domain.CodeUnauthorized, "Authentication required", nil)
	}

	resp, err := h.service.GetStatusDistribution(c.Context(), userID, c.Query("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetDashboard godoc
// @Summary Learning dashboard
// @Description Aggregated analytics: distribution, recent quizzes, per-day trend and score history
// @Tags dashboard
// @Accept json
// @Produce json
// @Param course_id query string false "Scope to a course"
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *AnalysisHandler) GetDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return domain.NewError(domain.CodeUnauthorized, "Authentication required", nil)
	}

	resp, err := h.service.GetDashboard(c.Context(), userID, c.Query("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
