package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-hub/learning-platform/internal/events"
	"github.com/campus-hub/learning-platform/internal/hydration"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

// ServiceManager wires and owns all facade services.
type ServiceManager interface {
	Users() UserService
	Courses() CourseService
	Enrollments() EnrollmentService
	Quizzes() QuizService
	Assignments() AssignmentService
	Reviews() ReviewService
	Reports() ReportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type serviceManager struct {
	repo      repositories.Repository
	executor  *hydration.Executor
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	userService       UserService
	courseService     CourseService
	enrollmentService EnrollmentService
	quizService       QuizService
	assignmentService AssignmentService
	reviewService     ReviewService
	reportService     ReportService

	shutdown bool
	mu       sync.RWMutex
}

// NewServiceManager creates the manager and all services eagerly; there is no
// separate initialization phase to forget.
func NewServiceManager(repo repositories.Repository, executor *hydration.Executor, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ServiceManager {
	sm := &serviceManager{
		repo:      repo,
		executor:  executor,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}

	sm.userService = NewUserService(repo, executor, logger, v)
	sm.courseService = NewCourseService(repo, executor, logger, v)
	sm.enrollmentService = NewEnrollmentService(repo, logger, v, publisher)
	sm.quizService = NewQuizService(repo, executor, logger, v, publisher)
	sm.assignmentService = NewAssignmentService(repo, logger, v, publisher)
	sm.reviewService = NewReviewService(repo, logger, v)
	sm.reportService = NewReportService(repo, logger)

	logger.Info("Service manager initialized")
	return sm
}

func (sm *serviceManager) Users() UserService              { return sm.userService }
func (sm *serviceManager) Courses() CourseService          { return sm.courseService }
func (sm *serviceManager) Enrollments() EnrollmentService  { return sm.enrollmentService }
func (sm *serviceManager) Quizzes() QuizService            { return sm.quizService }
func (sm *serviceManager) Assignments() AssignmentService  { return sm.assignmentService }
func (sm *serviceManager) Reviews() ReviewService          { return sm.reviewService }
func (sm *serviceManager) Reports() ReportService          { return sm.reportService }

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	return nil
}
