package models

import "fmt"

// Relation identifies a single edge of the entity graph that a fetch shape
// may resolve. Any relation not named by the executed shape stays unresolved
// on the returned objects.
type Relation string

const (
	RelUserProfile       Relation = "User.Profile"
	RelCourseModules     Relation = "Course.Modules"
	RelCourseTags        Relation = "Course.Tags"
	RelModuleLessons     Relation = "Module.Lessons"
	RelModuleQuiz        Relation = "Module.Quiz"
	RelLessonAssignments Relation = "Lesson.Assignments"
	RelQuizQuestions     Relation = "Quiz.Questions"
	RelQuestionOptions   Relation = "Question.Options"
)

// RelState records which relations of an entity were resolved by the fetch
// that produced it. The zero value marks every relation unresolved, which is
// the correct state for entities created in memory or loaded without a shape.
type RelState struct {
	resolved map[Relation]bool
}

// MarkResolved flags rel as loaded. Called by the fetch executor while
// stitching child rows onto the entity.
func (s *RelState) MarkResolved(rel Relation) {
	if s.resolved == nil {
		s.resolved = make(map[Relation]bool)
	}
	s.resolved[rel] = true
}

// IsResolved reports whether rel was part of the fetch shape that loaded
// this entity.
func (s *RelState) IsResolved(rel Relation) bool {
	return s.resolved[rel]
}

// mustResolved panics when rel is read without having been hydrated.
// Traversing a deferred relation outside its fetch window is a programming
// error, not a recoverable condition.
func (s *RelState) mustResolved(rel Relation) {
	if !s.resolved[rel] {
		panic(fmt.Sprintf("models: relation %q read outside its fetch window; include it in the fetch shape", rel))
	}
}
