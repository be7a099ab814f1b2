package models

import (
	"time"
)

// Course is the root of the catalog graph. Shared references (teacher,
// category, tags) are held by id and never cascade-deleted with the course;
// modules are owned and removed with it.
type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`

	// Shared references, identifier-only. The owning entities are looked up
	// by id when needed; deleting a course never touches them.
	TeacherID  uint  `json:"teacher_id" gorm:"not null;index"`
	CategoryID *uint `json:"category_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned, ordered by Module.OrderIndex. Resolved by the "course-modules"
	// and "course-full" shapes.
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Shared N:N. Resolved by the "course-tags" shape; tags outlive courses.
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:course_tags"`

	RelState `json:"-" gorm:"-"`
}

// HydratedModules returns the owned modules in orderIndex order. Panics when
// modules were not part of the fetch shape.
func (c *Course) HydratedModules() []Module {
	c.mustResolved(RelCourseModules)
	return c.Modules
}

// HydratedTags returns the course tags. Panics when tags were not part of
// the fetch shape.
func (c *Course) HydratedTags() []Tag {
	c.mustResolved(RelCourseTags)
	return c.Tags
}

func (Course) TableName() string {
	return "courses"
}

type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:60" validate:"required,min=1,max=60"`

	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}
