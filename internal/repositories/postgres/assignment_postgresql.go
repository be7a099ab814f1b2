package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// ===== ASSIGNMENTS =====

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := a.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := a.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) GetByLesson(ctx context.Context, lessonID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := a.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.Assignment) error {
	if err := a.db.WithContext(ctx).Save(assignment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== SUBMISSIONS =====

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.Submission) error {
	if err := s.db.WithContext(ctx).Save(submission).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetByAssignment(ctx context.Context, assignmentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) ExistsByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (s *SubmissionPostgreSQL) ListUngraded(ctx context.Context) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.db.WithContext(ctx).
		Where("score IS NULL").
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

// AverageScoreByStudent averages the graded submissions only; ungraded rows
// have no score to count.
func (s *SubmissionPostgreSQL) AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND score IS NOT NULL", studentID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, translateError(err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
