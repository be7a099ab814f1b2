package services

import (
	"context"
	"log/slog"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ReviewService {
	return &reviewService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Add stores one review per (course, student). Rating range is a business
// rule, not just a validation tag, so it fails with a clear message.
func (s *reviewService) Add(ctx context.Context, courseID uint, req *AddReviewRequest) (*models.CourseReview, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid review payload")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, newError(KindInvalidInput, "rating must be between 1 and 5, got %d", req.Rating)
	}

	if _, err := s.repo.Courses().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get course %d", courseID)
	}

	review := &models.CourseReview{
		CourseID:  courseID,
		StudentID: req.StudentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Reviews().ExistsByCourseAndStudent(ctx, courseID, req.StudentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyReviewed
		}
		return tx.Reviews().Create(ctx, review)
	})
	if err != nil {
		if KindOf(err) == KindDuplicate || repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, wrapError(KindStore, err, "failed to store review")
	}

	s.logger.InfoContext(ctx, "Course reviewed",
		"course_id", courseID,
		"student_id", req.StudentID,
		"rating", req.Rating)
	return review, nil
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID uint) ([]*models.CourseReview, error) {
	reviews, err := s.repo.Reviews().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list reviews")
	}
	return reviews, nil
}

func (s *reviewService) AverageRating(ctx context.Context, courseID uint) (float64, error) {
	avg, err := s.repo.Reviews().AverageRatingByCourse(ctx, courseID)
	if err != nil {
		return 0, wrapError(KindStore, err, "failed to compute average rating")
	}
	return avg, nil
}
