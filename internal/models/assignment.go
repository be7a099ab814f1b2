package models

import (
	"time"
)

type Assignment struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	LessonID uint       `json:"lesson_id" gorm:"not null;index"`
	Title    string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	DueDate  *time.Time `json:"due_date"`
	MaxScore int        `json:"max_score" gorm:"not null;default:100" validate:"min=1,max=1000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned; removed with the assignment.
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Submission is a student's answer to an assignment. One submission per
// (assignment, student); the unique index is the correctness guarantee under
// concurrent submits.
type Submission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_assignment_student,priority:1"`
	StudentID    uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_submission_assignment_student,priority:2"`

	Content  string     `json:"content" gorm:"type:text" validate:"required"`
	Score    *int       `json:"score"`
	Feedback *string    `json:"feedback" gorm:"type:text"`
	GradedAt *time.Time `json:"graded_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsGraded reports whether a teacher has scored this submission. A graded
// submission is only ever changed through an explicit grading call.
func (s *Submission) IsGraded() bool {
	return s.Score != nil
}

// IsLate reports whether the submission arrived after the assignment due
// date. A missing due date never counts as late.
func (s *Submission) IsLate(a *Assignment) bool {
	if a == nil || a.DueDate == nil {
		return false
	}
	return s.SubmittedAt.After(*a.DueDate)
}

func (Submission) TableName() string {
	return "submissions"
}
