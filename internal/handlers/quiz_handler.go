package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/services"
)

type QuizHandler struct {
	quizzes services.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(quizzes services.QuizService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, logger: logger}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	moduleID, ok := paramID(c, "module_id")
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	quiz, err := h.quizzes.Create(c.Request.Context(), moduleID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz returns the quiz hydrated with questions and options.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizzes.GetFull(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) GetModuleQuiz(c *gin.Context) {
	moduleID, ok := paramID(c, "module_id")
	if !ok {
		return
	}

	quiz, err := h.quizzes.GetByModule(c.Request.Context(), moduleID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	question, err := h.quizzes.AddQuestion(c.Request.Context(), quizID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuizHandler) AddOption(c *gin.Context) {
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return
	}

	var req services.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	option, err := h.quizzes.AddOption(c.Request.Context(), questionID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// TakeQuiz scores the submitted answers and records the attempt. One attempt
// per student per quiz.
func (h *QuizHandler) TakeQuiz(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.TakeQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	result, err := h.quizzes.TakeQuiz(c.Request.Context(), quizID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *QuizHandler) GetSubmission(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "student_id")
	if !ok {
		return
	}

	submission, err := h.quizzes.GetSubmission(c.Request.Context(), quizID, studentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *QuizHandler) ListSubmissions(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submissions, err := h.quizzes.GetSubmissionsByQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	avg, err := h.quizzes.AverageScore(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions":   submissions,
		"average_score": avg,
	})
}

func (h *QuizHandler) DidStudentPass(c *gin.Context) {
	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "student_id")
	if !ok {
		return
	}

	passed, err := h.quizzes.DidStudentPass(c.Request.Context(), quizID, studentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quiz_id":    quizID,
		"student_id": studentID,
		"passed":     passed,
	})
}
