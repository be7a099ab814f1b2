package repositories

import (
	"context"

	"github.com/campus-hub/learning-platform/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	CategoryID *uint   `json:"category_id"`
	TeacherID  *uint   `json:"teacher_id"`
	Title      *string `json:"title"`
	Tag        *string `json:"tag"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`    // "created_at", "title"
	SortOrder  string  `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Status    *models.EnrollmentStatus `json:"status"`
	StudentID *uint                    `json:"student_id"`
	CourseID  *uint                    `json:"course_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	// Profile is owned 1:1 by the user; SaveProfile inserts or replaces it.
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error)
	GetByCategory(ctx context.Context, categoryID uint) ([]*models.Course, error)
	SearchByTitle(ctx context.Context, title string) ([]*models.Course, error)
	GetByTag(ctx context.Context, tagName string) ([]*models.Course, error)
	GetPopular(ctx context.Context, limit int) ([]*models.Course, error)

	AddTag(ctx context.Context, courseID, tagID uint) error
	RemoveTag(ctx context.Context, courseID, tagID uint) error
}

type ModuleRepository interface {
	Create(ctx context.Context, module *models.Module) error
	GetByID(ctx context.Context, id uint) (*models.Module, error)
	GetByCourse(ctx context.Context, courseID uint) ([]*models.Module, error)
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, id uint) error
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	GetByModule(ctx context.Context, moduleID uint) ([]*models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	GetByLesson(ctx context.Context, lessonID uint) ([]*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	GetByAssignment(ctx context.Context, assignmentID uint) ([]*models.Submission, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error)
	ExistsByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (bool, error)
	ListUngraded(ctx context.Context) ([]*models.Submission, error)
	AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error)
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error)
	ExistsByModule(ctx context.Context, moduleID uint) (bool, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type AnswerOptionRepository interface {
	Create(ctx context.Context, option *models.AnswerOption) error
	GetByID(ctx context.Context, id uint) (*models.AnswerOption, error)
	GetByQuestion(ctx context.Context, questionID uint) ([]*models.AnswerOption, error)
	Delete(ctx context.Context, id uint) error
}

type QuizSubmissionRepository interface {
	Create(ctx context.Context, submission *models.QuizSubmission) error
	GetByID(ctx context.Context, id uint) (*models.QuizSubmission, error)
	GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (*models.QuizSubmission, error)
	ExistsByQuizAndStudent(ctx context.Context, quizID, studentID uint) (bool, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSubmission, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.QuizSubmission, error)
	AverageScoreByQuiz(ctx context.Context, quizID uint) (float64, error)
	AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error)
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	CountByCourseAndStatus(ctx context.Context, courseID uint, status models.EnrollmentStatus) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.CourseReview) error
	GetByID(ctx context.Context, id uint) (*models.CourseReview, error)
	ExistsByCourseAndStudent(ctx context.Context, courseID, studentID uint) (bool, error)
	GetByCourse(ctx context.Context, courseID uint) ([]*models.CourseReview, error)
	AverageRatingByCourse(ctx context.Context, courseID uint) (float64, error)
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Delete(ctx context.Context, id uint) error
}

// Repository aggregates every sub-repository plus transaction support.
type Repository interface {
	Users() UserRepository
	Categories() CategoryRepository
	Tags() TagRepository
	Courses() CourseRepository
	Modules() ModuleRepository
	Lessons() LessonRepository
	Assignments() AssignmentRepository
	Submissions() SubmissionRepository
	Quizzes() QuizRepository
	Questions() QuestionRepository
	AnswerOptions() AnswerOptionRepository
	QuizSubmissions() QuizSubmissionRepository
	Enrollments() EnrollmentRepository
	Reviews() ReviewRepository

	// WithTransaction runs fn against a repository bound to one store
	// transaction; fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
