package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/services"
)

type AssignmentHandler struct {
	assignments services.AssignmentService
	logger      *slog.Logger
}

func NewAssignmentHandler(assignments services.AssignmentService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, logger: logger}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	lessonID, ok := paramID(c, "lesson_id")
	if !ok {
		return
	}

	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	assignment, err := h.assignments.Create(c.Request.Context(), lessonID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignments.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ListByLesson(c *gin.Context) {
	lessonID, ok := paramID(c, "lesson_id")
	if !ok {
		return
	}

	assignments, err := h.assignments.GetByLesson(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

func (h *AssignmentHandler) SubmitAssignment(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.SubmitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	submission, err := h.assignments.Submit(c.Request.Context(), assignmentID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (h *AssignmentHandler) GradeSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	submission, err := h.assignments.Grade(c.Request.Context(), submissionID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *AssignmentHandler) ListUngraded(c *gin.Context) {
	submissions, err := h.assignments.ListUngraded(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *AssignmentHandler) StudentAverageScore(c *gin.Context) {
	studentID, ok := paramID(c, "student_id")
	if !ok {
		return
	}

	avg, err := h.assignments.StudentAverageScore(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"student_id":    studentID,
		"average_score": avg,
	})
}
