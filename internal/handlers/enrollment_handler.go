package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/services"
)

type EnrollmentHandler struct {
	enrollments services.EnrollmentService
	logger      *slog.Logger
}

func NewEnrollmentHandler(enrollments services.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, logger: logger}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	enrollment, err := h.enrollments.UpdateProgress(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) CompleteEnrollment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CompleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	enrollment, err := h.enrollments.Complete(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Unenroll(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	filters := h.parseEnrollmentFilters(c)

	resp, err := h.enrollments.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EnrollmentHandler) CountActiveByCourse(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	count, err := h.enrollments.CountActiveByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course_id": courseID, "active_enrollments": count})
}

func (h *EnrollmentHandler) parseEnrollmentFilters(c *gin.Context) repositories.EnrollmentFilters {
	var filters repositories.EnrollmentFilters

	if size, err := strconv.Atoi(c.DefaultQuery("size", "20")); err == nil && size > 0 && size <= 100 {
		filters.Limit = size
	} else {
		filters.Limit = 20
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 1 {
		filters.Offset = (page - 1) * filters.Limit
	}

	if v := c.Query("status"); v != "" {
		status := models.EnrollmentStatus(v)
		filters.Status = &status
	}
	if v := c.Query("student_id"); v != "" {
		if id, err := parseUint(v); err == nil {
			filters.StudentID = &id
		}
	}
	if v := c.Query("course_id"); v != "" {
		if id, err := parseUint(v); err == nil {
			filters.CourseID = &id
		}
	}
	return filters
}
