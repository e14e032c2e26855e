package handler

import (
	"studyhall/internal/domain"
	"studyhall/internal/dto"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles course management HTTP requests.
type CourseHandler struct {
	service service.CourseService
}

// NewCourseHandler creates a new CourseHandler instance
func NewCourseHandler(service service.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// ListCourses godoc
// @Summary List all courses
// @Tags course
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	resp, err := h.service.ListCourses(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCourse godoc
// @Summary Get a course
// @Tags course
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.NewValidationError("id", "course id is required")
	}

	resp, err := h.service.GetCourse(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags course
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course to create"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}

	resp, err := h.service.CreateCourse(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course, its quizzes, questions, quiz results and learning targets
// @Tags course
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.NewValidationError("id", "course id is required")
	}

	if err := h.service.DeleteCourse(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Course deleted"})
}
