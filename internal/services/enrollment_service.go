package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/campus-hub/learning-platform/internal/events"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Enroll registers a student on a course. The duplicate check inside the
// transaction gives a friendly error; the unique index on (student, course)
// is the guarantee when two enrolls race.
func (s *enrollmentService) Enroll(ctx context.Context, req *EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid enrollment payload")
	}

	student, err := s.repo.Users().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get student %d", req.StudentID)
	}
	if !student.IsStudent() {
		return nil, ErrNotAStudent
	}

	if _, err := s.repo.Courses().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get course %d", req.CourseID)
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Status:    models.EnrollmentActive,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Enrollments().ExistsByStudentAndCourse(ctx, req.StudentID, req.CourseID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyEnrolled
		}
		return tx.Enrollments().Create(ctx, enrollment)
	})
	if err != nil {
		if KindOf(err) == KindDuplicate || repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, wrapError(KindStore, err, "failed to enroll")
	}

	s.logger.InfoContext(ctx, "Student enrolled",
		"enrollment_id", enrollment.ID,
		"student_id", req.StudentID,
		"course_id", req.CourseID)
	return enrollment, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollments().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get enrollment %d", id)
	}
	return enrollment, nil
}

func (s *enrollmentService) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollments().GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get enrollment")
	}
	return enrollment, nil
}

// UpdateProgress stores a new progress percentage. Hitting 100 on an ACTIVE
// enrollment completes it automatically; dropped or suspended enrollments
// keep their status whatever the percentage says. COMPLETED is terminal:
// further updates are rejected.
func (s *enrollmentService) UpdateProgress(ctx context.Context, id uint, req *UpdateProgressRequest) (*models.Enrollment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid progress payload")
	}

	var enrollment *models.Enrollment
	var completed bool

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		e, err := tx.Enrollments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e.IsCompleted() {
			return ErrEnrollmentCompleted
		}
		completed = e.ApplyProgress(req.ProgressPercentage)
		if err := tx.Enrollments().Update(ctx, e); err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		if KindOf(err) == KindAlreadyCompleted {
			return nil, ErrEnrollmentCompleted
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to update progress for enrollment %d", id)
	}

	if completed {
		s.publishCompleted(ctx, enrollment)
	}
	return enrollment, nil
}

// Complete marks the enrollment finished regardless of tracked progress.
// Completing twice is an error; the first completion wins.
func (s *enrollmentService) Complete(ctx context.Context, id uint, req *CompleteEnrollmentRequest) (*models.Enrollment, error) {
	if req.FinalGrade != nil && (*req.FinalGrade < 0 || *req.FinalGrade > 100) {
		return nil, newError(KindInvalidInput, "final grade must be between 0 and 100")
	}

	var enrollment *models.Enrollment

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		e, err := tx.Enrollments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e.IsCompleted() {
			return ErrEnrollmentCompleted
		}
		e.Complete()
		e.FinalGrade = req.FinalGrade
		if err := tx.Enrollments().Update(ctx, e); err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		if KindOf(err) == KindAlreadyCompleted {
			return nil, ErrEnrollmentCompleted
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to complete enrollment %d", id)
	}

	s.publishCompleted(ctx, enrollment)
	return enrollment, nil
}

// Unenroll drops the student. The row stays as history; re-enrolling the same
// (student, course) is still blocked by the unique constraint.
func (s *enrollmentService) Unenroll(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment *models.Enrollment

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		e, err := tx.Enrollments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		e.Drop()
		if err := tx.Enrollments().Update(ctx, e); err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to unenroll enrollment %d", id)
	}

	if pubErr := s.publisher.Publish(ctx, events.NewEvent(events.TypeEnrollmentDropped, events.EnrollmentDroppedEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
	})); pubErr != nil {
		s.logger.ErrorContext(ctx, "Failed to publish enrollment dropped event",
			"enrollment_id", enrollment.ID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Student unenrolled", "enrollment_id", enrollment.ID)
	return enrollment, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollments().List(ctx, filters)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list enrollments")
	}
	return &EnrollmentListResponse{Enrollments: enrollments, Total: total}, nil
}

func (s *enrollmentService) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	count, err := s.repo.Enrollments().CountByCourseAndStatus(ctx, courseID, models.EnrollmentActive)
	if err != nil {
		return 0, wrapError(KindStore, err, "failed to count active enrollments")
	}
	return count, nil
}

func (s *enrollmentService) publishCompleted(ctx context.Context, e *models.Enrollment) {
	completedAt := time.Now()
	if e.CompletedAt != nil {
		completedAt = *e.CompletedAt
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeEnrollmentCompleted, events.EnrollmentCompletedEvent{
		EnrollmentID: e.ID,
		StudentID:    e.StudentID,
		CourseID:     e.CourseID,
		CompletedAt:  completedAt,
	})); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish enrollment completed event",
			"enrollment_id", e.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "Enrollment completed",
		"enrollment_id", e.ID,
		"student_id", e.StudentID,
		"course_id", e.CourseID)
}
