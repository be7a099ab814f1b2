package models

import (
	"time"
)

// Module is an ordered chapter of a course. It owns its lessons and at most
// one quiz; all of them are removed with the module.
type Module struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CourseID   uint   `json:"course_id" gorm:"not null;index;uniqueIndex:idx_module_course_order,priority:1"`
	Title      string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	OrderIndex int    `json:"order_index" gorm:"not null;uniqueIndex:idx_module_course_order,priority:2" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned, ordered by Lesson.OrderIndex. Resolved by "course-full".
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Owned 1:1. Resolved on demand; the quiz graph has its own shapes.
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:ModuleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	RelState `json:"-" gorm:"-"`
}

// HydratedLessons returns the owned lessons in orderIndex order. Panics when
// lessons were not part of the fetch shape.
func (m *Module) HydratedLessons() []Lesson {
	m.mustResolved(RelModuleLessons)
	return m.Lessons
}

// HydratedQuiz returns the owned quiz, nil when the module has none. Panics
// when the quiz was not part of the fetch shape.
func (m *Module) HydratedQuiz() *Quiz {
	m.mustResolved(RelModuleQuiz)
	return m.Quiz
}

func (Module) TableName() string {
	return "modules"
}

type Lesson struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	ModuleID   uint    `json:"module_id" gorm:"not null;index;uniqueIndex:idx_lesson_module_order,priority:1"`
	Title      string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Content    *string `json:"content" gorm:"type:text"`
	OrderIndex int     `json:"order_index" gorm:"not null;uniqueIndex:idx_lesson_module_order,priority:2" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned. Resolved by "lesson-assignments".
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:LessonID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	RelState `json:"-" gorm:"-"`
}

// HydratedAssignments returns the owned assignments. Panics when assignments
// were not part of the fetch shape.
func (l *Lesson) HydratedAssignments() []Assignment {
	l.mustResolved(RelLessonAssignments)
	return l.Assignments
}

func (Lesson) TableName() string {
	return "lessons"
}
