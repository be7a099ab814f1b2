package services

import (
	"context"
	"time"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// ===== REQUEST/RESPONSE DTOs =====

type CreateUserRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=100"`
	Email string          `json:"email" validate:"required,email"`
	Role  models.UserRole `json:"role" validate:"required,user_role"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type ProfileRequest struct {
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	TeacherID   uint    `json:"teacher_id" validate:"required"`
	CategoryID  *uint   `json:"category_id"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=60"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	CategoryID  *uint   `json:"category_id"`
}

type CreateModuleRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

type CreateLessonRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=200"`
	Content    *string `json:"content"`
	OrderIndex int     `json:"order_index" validate:"min=0"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type CreateAssignmentRequest struct {
	Title    string     `json:"title" validate:"required,min=1,max=200"`
	DueDate  *time.Time `json:"due_date"`
	MaxScore int        `json:"max_score" validate:"required,min=1,max=1000"`
}

type SubmitAssignmentRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

type GradeSubmissionRequest struct {
	Score    int     `json:"score" validate:"min=0"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}

type CreateQuizRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	PassingScore *int   `json:"passing_score" validate:"omitempty,percentage"`
}

type CreateQuestionRequest struct {
	Text       string              `json:"text" validate:"required,max=2000"`
	Type       models.QuestionType `json:"type" validate:"required,question_type"`
	Points     int                 `json:"points" validate:"omitempty,min=1,max=100"`
	OrderIndex int                 `json:"order_index" validate:"min=0"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type TakeQuizRequest struct {
	StudentID uint              `json:"student_id" validate:"required"`
	Answers   map[uint][]uint   `json:"answers"`
}

type TakeQuizResponse struct {
	Submission *models.QuizSubmission `json:"submission"`
	Result     ScoreResult            `json:"result"`
	Passed     bool                   `json:"passed"`
}

type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	CourseID  uint `json:"course_id" validate:"required"`
}

type UpdateProgressRequest struct {
	ProgressPercentage int `json:"progress_percentage" validate:"percentage"`
}

type CompleteEnrollmentRequest struct {
	FinalGrade *float64 `json:"final_grade" validate:"omitempty,min=0,max=100"`
}

type AddReviewRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Rating    int     `json:"rating" validate:"required"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetWithProfile(ctx context.Context, id uint) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	SaveProfile(ctx context.Context, userID uint, req *ProfileRequest) (*models.Profile, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	// Fetch hydrates the course with a named shape ("course-modules",
	// "course-full", "course-tags").
	Fetch(ctx context.Context, id uint, shapeName string) (*models.Course, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	SearchByTitle(ctx context.Context, title string) ([]*models.Course, error)
	GetByTag(ctx context.Context, tagName string) ([]*models.Course, error)
	GetPopular(ctx context.Context, limit int) ([]*models.Course, error)

	AddModule(ctx context.Context, courseID uint, req *CreateModuleRequest) (*models.Module, error)
	AddLesson(ctx context.Context, moduleID uint, req *CreateLessonRequest) (*models.Lesson, error)
	AddTag(ctx context.Context, courseID uint, tagName string) error
	RemoveTag(ctx context.Context, courseID uint, tagName string) error

	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	AverageRating(ctx context.Context, courseID uint) (float64, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, req *EnrollRequest) (*models.Enrollment, error)
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, id uint, req *UpdateProgressRequest) (*models.Enrollment, error)
	Complete(ctx context.Context, id uint, req *CompleteEnrollmentRequest) (*models.Enrollment, error)
	Unenroll(ctx context.Context, id uint) (*models.Enrollment, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
}

type QuizService interface {
	Create(ctx context.Context, moduleID uint, req *CreateQuizRequest) (*models.Quiz, error)
	GetFull(ctx context.Context, id uint) (*models.Quiz, error)
	GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error)
	AddQuestion(ctx context.Context, quizID uint, req *CreateQuestionRequest) (*models.Question, error)
	AddOption(ctx context.Context, questionID uint, req *CreateOptionRequest) (*models.AnswerOption, error)
	TakeQuiz(ctx context.Context, quizID uint, req *TakeQuizRequest) (*TakeQuizResponse, error)
	GetSubmission(ctx context.Context, quizID, studentID uint) (*models.QuizSubmission, error)
	GetSubmissionsByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSubmission, error)
	AverageScore(ctx context.Context, quizID uint) (float64, error)
	DidStudentPass(ctx context.Context, quizID, studentID uint) (bool, error)
}

type AssignmentService interface {
	Create(ctx context.Context, lessonID uint, req *CreateAssignmentRequest) (*models.Assignment, error)
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	GetByLesson(ctx context.Context, lessonID uint) ([]*models.Assignment, error)
	Submit(ctx context.Context, assignmentID uint, req *SubmitAssignmentRequest) (*models.Submission, error)
	Grade(ctx context.Context, submissionID uint, req *GradeSubmissionRequest) (*models.Submission, error)
	ListUngraded(ctx context.Context) ([]*models.Submission, error)
	StudentAverageScore(ctx context.Context, studentID uint) (float64, error)
}

type ReviewService interface {
	Add(ctx context.Context, courseID uint, req *AddReviewRequest) (*models.CourseReview, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.CourseReview, error)
	AverageRating(ctx context.Context, courseID uint) (float64, error)
}

type ReportService interface {
	// CourseGradebook renders an .xlsx workbook with one row per enrolled
	// student: progress, status, quiz scores.
	CourseGradebook(ctx context.Context, courseID uint) ([]byte, error)
}
