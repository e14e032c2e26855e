package handler

import (
	"studyhall/internal/domain"
	"studyhall/internal/dto"
	"studyhall/internal/middleware"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns a quiz with its questions. Correct answers are not included.
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if quizID == "" {
		return domain.NewValidationError("id", "quiz id is required")
	}

	resp, err := h.service.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Scores a submission, updates the user's learning targets and returns the breakdown
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Submitted answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if quizID == "" {
		return domain.NewValidationError("id", "quiz id is required")
	}

	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return domain.NewError(domain.CodeUnauthorized, "Authentication required", nil)
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}

	resp, err := h.service.SubmitQuiz(c.Context(), quizID, userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizzesByCourse godoc
// @Summary List quizzes of a course
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} dto.QuizSummaryResponse
// @Router /courses/{id}/quizzes [get]
func (h *QuizHandler) GetQuizzesByCourse(c *fiber.Ctx) error {
	courseID := c.Params("id")
	if courseID == "" {
		return domain.NewValidationError("id", "course id is required")
	}

	resp, err := h.service.GetQuizzesByCourse(c.Context(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
