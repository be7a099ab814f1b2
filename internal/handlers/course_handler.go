package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/services"
)

type CourseHandler struct {
	courses services.CourseService
	reviews services.ReviewService
	reports services.ReportService
	logger  *slog.Logger
}

func NewCourseHandler(courses services.CourseService, reviews services.ReviewService, reports services.ReportService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		reviews: reviews,
		reports: reports,
		logger:  logger,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetCourse returns the bare course row, or a hydrated graph when the
// ?shape= query names a fetch shape.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	shape := c.Query("shape")
	if shape == "" {
		course, err := h.courses.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, course)
		return
	}

	course, err := h.courses.Fetch(c.Request.Context(), id, shape)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := h.parseCourseFilters(c)

	resp, err := h.courses.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CourseHandler) SearchCourses(c *gin.Context) {
	title := c.Query("q")

	courses, err := h.courses.SearchByTitle(c.Request.Context(), title)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) GetPopularCourses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	courses, err := h.courses.GetPopular(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) AddModule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	module, err := h.courses.AddModule(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	moduleID, ok := paramID(c, "module_id")
	if !ok {
		return
	}

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	lesson, err := h.courses.AddLesson(c.Request.Context(), moduleID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *CourseHandler) AddTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.courses.AddTag(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) RemoveTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courses.RemoveTag(c.Request.Context(), id, c.Param("tag")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	category, err := h.courses.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CourseHandler) ListCategories(c *gin.Context) {
	categories, err := h.courses.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CourseHandler) AddReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	review, err := h.reviews.Add(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *CourseHandler) ListReviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByCourse(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	avg, err := h.reviews.AverageRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": avg,
	})
}

// ExportGradebook streams the course gradebook workbook.
func (h *CourseHandler) ExportGradebook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.reports.CourseGradebook(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gradebook.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		book)
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if size, err := strconv.Atoi(c.DefaultQuery("size", "20")); err == nil && size > 0 && size <= 100 {
		filters.Limit = size
	} else {
		filters.Limit = 20
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 1 {
		filters.Offset = (page - 1) * filters.Limit
	}

	if v := c.Query("category_id"); v != "" {
		if id, err := parseUint(v); err == nil {
			filters.CategoryID = &id
		}
	}
	if v := c.Query("teacher_id"); v != "" {
		if id, err := parseUint(v); err == nil {
			filters.TeacherID = &id
		}
	}
	if v := c.Query("title"); v != "" {
		filters.Title = &v
	}
	if v := c.Query("tag"); v != "" {
		filters.Tag = &v
	}
	return filters
}
