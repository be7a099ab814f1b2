package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/learning-platform/internal/services"
)

type HandlerManager struct {
	serviceManager    services.ServiceManager
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	quizHandler       *QuizHandler
	assignmentHandler *AssignmentHandler
	logger            *slog.Logger
}

func NewHandlerManager(serviceManager services.ServiceManager, logger *slog.Logger) *HandlerManager {
	return &HandlerManager{
		serviceManager:    serviceManager,
		userHandler:       NewUserHandler(serviceManager.Users(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Courses(), serviceManager.Reviews(), serviceManager.Reports(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollments(), logger),
		quizHandler:       NewQuizHandler(serviceManager.Quizzes(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignments(), logger),
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// User routes
		users := v1.Group("/users")
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("", hm.userHandler.ListUsersByRole)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
			users.GET("/:id/profile", hm.userHandler.GetUserProfile)
			users.PUT("/:id/profile", hm.userHandler.SaveProfile)
		}

		// Course catalog routes
		courses := v1.Group("/courses")
		{
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/search", hm.courseHandler.SearchCourses)
			courses.GET("/popular", hm.courseHandler.GetPopularCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.courseHandler.DeleteCourse)

			courses.POST("/:id/modules", hm.courseHandler.AddModule)
			courses.POST("/:id/tags", hm.courseHandler.AddTag)
			courses.DELETE("/:id/tags/:tag", hm.courseHandler.RemoveTag)

			courses.POST("/:id/reviews", hm.courseHandler.AddReview)
			courses.GET("/:id/reviews", hm.courseHandler.ListReviews)

			courses.GET("/:id/enrollments/active", hm.enrollmentHandler.CountActiveByCourse)
			courses.GET("/:id/gradebook", hm.courseHandler.ExportGradebook)
		}

		// Module routes
		modules := v1.Group("/modules")
		{
			modules.POST("/:module_id/lessons", hm.courseHandler.AddLesson)
			modules.POST("/:module_id/quiz", hm.quizHandler.CreateQuiz)
			modules.GET("/:module_id/quiz", hm.quizHandler.GetModuleQuiz)
		}

		// Lesson routes
		lessons := v1.Group("/lessons")
		{
			lessons.POST("/:lesson_id/assignments", hm.assignmentHandler.CreateAssignment)
			lessons.GET("/:lesson_id/assignments", hm.assignmentHandler.ListByLesson)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.POST("", hm.courseHandler.CreateCategory)
			categories.GET("", hm.courseHandler.ListCategories)
		}

		// Enrollment lifecycle routes
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
			enrollments.GET("/:id", hm.enrollmentHandler.GetEnrollment)
			enrollments.PUT("/:id/progress", hm.enrollmentHandler.UpdateProgress)
			enrollments.POST("/:id/complete", hm.enrollmentHandler.CompleteEnrollment)
			enrollments.POST("/:id/drop", hm.enrollmentHandler.Unenroll)
		}

		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/questions", hm.quizHandler.AddQuestion)
			quizzes.POST("/:id/take", hm.quizHandler.TakeQuiz)
			quizzes.GET("/:id/submissions", hm.quizHandler.ListSubmissions)
			quizzes.GET("/:id/submissions/:student_id", hm.quizHandler.GetSubmission)
			quizzes.GET("/:id/submissions/:student_id/passed", hm.quizHandler.DidStudentPass)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.POST("/:question_id/options", hm.quizHandler.AddOption)
		}

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)
			assignments.POST("/:id/submissions", hm.assignmentHandler.SubmitAssignment)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.GET("/ungraded", hm.assignmentHandler.ListUngraded)
			submissions.PUT("/:id/grade", hm.assignmentHandler.GradeSubmission)
		}

		// Student aggregate routes
		students := v1.Group("/students")
		{
			students.GET("/:student_id/average-score", hm.assignmentHandler.StudentAverageScore)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "learning-platform",
		})
	})
}
