package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// ===== ENROLLMENTS =====

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (e *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var enrollments []*models.Enrollment
	var total int64

	query := e.db.WithContext(ctx).Model(&models.Enrollment{})
	query = e.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	query = query.Order("enrolled_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return enrollments, total, nil
}

func (e *EnrollmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	return query
}

func (e *EnrollmentPostgreSQL) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) CountByCourseAndStatus(ctx context.Context, courseID uint, status models.EnrollmentStatus) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, status).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// ===== COURSE REVIEWS =====

type ReviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{db: db}
}

func (r *ReviewPostgreSQL) Create(ctx context.Context, review *models.CourseReview) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *ReviewPostgreSQL) GetByID(ctx context.Context, id uint) (*models.CourseReview, error) {
	var review models.CourseReview
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) ExistsByCourseAndStudent(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseReview{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (r *ReviewPostgreSQL) GetByCourse(ctx context.Context, courseID uint) ([]*models.CourseReview, error) {
	var reviews []*models.CourseReview
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translateError(err)
	}
	return reviews, nil
}

func (r *ReviewPostgreSQL) AverageRatingByCourse(ctx context.Context, courseID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.CourseReview{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, translateError(err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *ReviewPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CourseReview{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
