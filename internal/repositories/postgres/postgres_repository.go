package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/cache"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	users           repositories.UserRepository
	categories      repositories.CategoryRepository
	tags            repositories.TagRepository
	courses         repositories.CourseRepository
	modules         repositories.ModuleRepository
	lessons         repositories.LessonRepository
	assignments     repositories.AssignmentRepository
	submissions     repositories.SubmissionRepository
	quizzes         repositories.QuizRepository
	questions       repositories.QuestionRepository
	answerOptions   repositories.AnswerOptionRepository
	quizSubmissions repositories.QuizSubmissionRepository
	enrollments     repositories.EnrollmentRepository
	reviews         repositories.ReviewRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}
	repo.bind(config.DB, cacheManager)
	return repo
}

// bind wires every sub-repository against db. Called once at construction and
// again inside WithTransaction with the transaction handle.
func (r *PostgreSQLRepository) bind(db *gorm.DB, cm *cache.CacheManager) {
	r.users = NewUserPostgreSQL(db, cm)
	r.categories = NewCategoryPostgreSQL(db)
	r.tags = NewTagPostgreSQL(db)
	r.courses = NewCoursePostgreSQL(db, cm)
	r.modules = NewModulePostgreSQL(db)
	r.lessons = NewLessonPostgreSQL(db)
	r.assignments = NewAssignmentPostgreSQL(db)
	r.submissions = NewSubmissionPostgreSQL(db)
	r.quizzes = NewQuizPostgreSQL(db, cm)
	r.questions = NewQuestionPostgreSQL(db)
	r.answerOptions = NewAnswerOptionPostgreSQL(db)
	r.quizSubmissions = NewQuizSubmissionPostgreSQL(db, cm)
	r.enrollments = NewEnrollmentPostgreSQL(db)
	r.reviews = NewReviewPostgreSQL(db)
}

func (r *PostgreSQLRepository) Users() repositories.UserRepository { return r.users }

func (r *PostgreSQLRepository) Categories() repositories.CategoryRepository { return r.categories }

func (r *PostgreSQLRepository) Tags() repositories.TagRepository { return r.tags }

func (r *PostgreSQLRepository) Courses() repositories.CourseRepository { return r.courses }

func (r *PostgreSQLRepository) Modules() repositories.ModuleRepository { return r.modules }

func (r *PostgreSQLRepository) Lessons() repositories.LessonRepository { return r.lessons }

func (r *PostgreSQLRepository) Assignments() repositories.AssignmentRepository {
	return r.assignments
}

func (r *PostgreSQLRepository) Submissions() repositories.SubmissionRepository {
	return r.submissions
}

func (r *PostgreSQLRepository) Quizzes() repositories.QuizRepository { return r.quizzes }

func (r *PostgreSQLRepository) Questions() repositories.QuestionRepository { return r.questions }

func (r *PostgreSQLRepository) AnswerOptions() repositories.AnswerOptionRepository {
	return r.answerOptions
}

func (r *PostgreSQLRepository) QuizSubmissions() repositories.QuizSubmissionRepository {
	return r.quizSubmissions
}

func (r *PostgreSQLRepository) Enrollments() repositories.EnrollmentRepository {
	return r.enrollments
}

func (r *PostgreSQLRepository) Reviews() repositories.ReviewRepository { return r.reviews }

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.bind(tx, r.cacheManager)
		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}
