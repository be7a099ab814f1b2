package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
)

// Enrollment links a student to a course with progress tracking. One row per
// (student, course); the row is kept when the student drops out.
type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_enrollment_student_course,priority:1"`
	CourseID  uint `json:"course_id" gorm:"not null;index;uniqueIndex:idx_enrollment_student_course,priority:2"`

	Status             EnrollmentStatus `json:"status" gorm:"not null;size:20;default:ACTIVE;index"`
	ProgressPercentage int              `json:"progress_percentage" gorm:"not null;default:0" validate:"min=0,max=100"`
	FinalGrade         *float64         `json:"final_grade"`

	EnrolledAt  time.Time  `json:"enrolled_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Complete marks the enrollment finished: progress forced to 100 and the
// completion timestamp set.
func (e *Enrollment) Complete() {
	now := time.Now()
	e.Status = EnrollmentCompleted
	e.CompletedAt = &now
	e.ProgressPercentage = 100
}

// Drop marks the enrollment dropped. The row is retained as history.
func (e *Enrollment) Drop() {
	e.Status = EnrollmentDropped
}

// Suspend pauses the enrollment without losing progress.
func (e *Enrollment) Suspend() {
	e.Status = EnrollmentSuspended
}

// ApplyProgress stores the new percentage and reports whether it triggered
// automatic completion. Completion only fires from ACTIVE; a dropped or
// suspended enrollment keeps its status even at 100%.
func (e *Enrollment) ApplyProgress(pct int) bool {
	e.ProgressPercentage = pct
	if pct == 100 && e.Status == EnrollmentActive {
		e.Complete()
		return true
	}
	return false
}

func (e *Enrollment) IsActive() bool    { return e.Status == EnrollmentActive }
func (e *Enrollment) IsCompleted() bool { return e.Status == EnrollmentCompleted }

func (Enrollment) TableName() string {
	return "enrollments"
}

// CourseReview is a student's rating of a course, one per (course, student).
type CourseReview struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_review_course_student,priority:1"`
	StudentID uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_review_course_student,priority:2"`

	Rating  int     `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" gorm:"type:text" validate:"omitempty,max=2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseReview) TableName() string {
	return "course_reviews"
}
