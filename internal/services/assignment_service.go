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

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *assignmentService) Create(ctx context.Context, lessonID uint, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid assignment payload")
	}

	if _, err := s.repo.Lessons().GetByID(ctx, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get lesson %d", lessonID)
	}

	assignment := &models.Assignment{
		LessonID: lessonID,
		Title:    req.Title,
		DueDate:  req.DueDate,
		MaxScore: req.MaxScore,
	}
	if err := s.repo.Assignments().Create(ctx, assignment); err != nil {
		return nil, wrapError(KindStore, err, "failed to create assignment")
	}
	return assignment, nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Assignments().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get assignment %d", id)
	}
	return assignment, nil
}

func (s *assignmentService) GetByLesson(ctx context.Context, lessonID uint) ([]*models.Assignment, error) {
	assignments, err := s.repo.Assignments().GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list assignments")
	}
	return assignments, nil
}

// Submit stores a student's answer. One submission per (assignment, student);
// the unique index decides concurrent submits.
func (s *assignmentService) Submit(ctx context.Context, assignmentID uint, req *SubmitAssignmentRequest) (*models.Submission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid submission payload")
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

	if _, err := s.GetByID(ctx, assignmentID); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    req.StudentID,
		Content:      req.Content,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Submissions().ExistsByAssignmentAndStudent(ctx, assignmentID, req.StudentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadySubmitted
		}
		return tx.Submissions().Create(ctx, submission)
	})
	if err != nil {
		if KindOf(err) == KindDuplicate || repositories.IsDuplicateError(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, wrapError(KindStore, err, "failed to store submission")
	}

	s.logger.InfoContext(ctx, "Assignment submitted",
		"submission_id", submission.ID,
		"assignment_id", assignmentID,
		"student_id", req.StudentID)
	return submission, nil
}

// Grade sets score and feedback on a submission. The score must fit the
// assignment's max score.
func (s *assignmentService) Grade(ctx context.Context, submissionID uint, req *GradeSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid grade payload")
	}

	var submission *models.Submission

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		sub, err := tx.Submissions().GetByID(ctx, submissionID)
		if err != nil {
			return err
		}

		assignment, err := tx.Assignments().GetByID(ctx, sub.AssignmentID)
		if err != nil {
			return err
		}
		if req.Score < 0 || req.Score > assignment.MaxScore {
			return newError(KindInvalidInput, "score %d outside [0, %d]", req.Score, assignment.MaxScore)
		}

		now := time.Now()
		score := req.Score
		sub.Score = &score
		sub.Feedback = req.Feedback
		sub.GradedAt = &now

		if err := tx.Submissions().Update(ctx, sub); err != nil {
			return err
		}
		submission = sub
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInvalidInput {
			return nil, err
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, wrapError(KindStore, err, "failed to grade submission %d", submissionID)
	}

	if pubErr := s.publisher.Publish(ctx, events.NewEvent(events.TypeSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Score:        *submission.Score,
	})); pubErr != nil {
		s.logger.ErrorContext(ctx, "Failed to publish submission graded event",
			"submission_id", submission.ID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Submission graded",
		"submission_id", submission.ID,
		"score", *submission.Score)
	return submission, nil
}

func (s *assignmentService) ListUngraded(ctx context.Context) ([]*models.Submission, error) {
	submissions, err := s.repo.Submissions().ListUngraded(ctx)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list ungraded submissions")
	}
	return submissions, nil
}

func (s *assignmentService) StudentAverageScore(ctx context.Context, studentID uint) (float64, error) {
	avg, err := s.repo.Submissions().AverageScoreByStudent(ctx, studentID)
	if err != nil {
		return 0, wrapError(KindStore, err, "failed to compute student average")
	}
	return avg, nil
}
