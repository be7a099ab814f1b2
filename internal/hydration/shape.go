// Package hydration loads bounded entity subgraphs from the relational
// store. A fetch shape names exactly which relations come back resolved; the
// planner turns a shape into an ordered list of queries that each expand a
// single to-many relation, so sibling collections are never joined into one
// row set.
package hydration

import (
	"errors"
	"fmt"

	"github.com/campus-hub/learning-platform/internal/models"
)

// Shape names a supported fetch shape.
type Shape string

const (
	// ShapeCourseModules loads a course with its ordered modules.
	ShapeCourseModules Shape = "course-modules"
	// ShapeCourseFull loads a course with modules and their lessons.
	ShapeCourseFull Shape = "course-full"
	// ShapeCourseTags loads a course with its tag set.
	ShapeCourseTags Shape = "course-tags"
	// ShapeQuizFull loads a quiz with questions and their answer options.
	ShapeQuizFull Shape = "quiz-full"
	// ShapeUserProfile loads a user with the owned profile.
	ShapeUserProfile Shape = "user-profile"
)

// ErrUnsupportedShape is returned for shape names the planner does not know.
var ErrUnsupportedShape = errors.New("unsupported fetch shape")

// ParseShape validates a shape name coming from an external caller.
func ParseShape(name string) (Shape, error) {
	switch Shape(name) {
	case ShapeCourseModules, ShapeCourseFull, ShapeCourseTags, ShapeQuizFull, ShapeUserProfile:
		return Shape(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedShape, name)
	}
}

// RootKind is the entity type a shape starts from.
type RootKind string

const (
	RootCourse RootKind = "course"
	RootQuiz   RootKind = "quiz"
	RootUser   RootKind = "user"
)

// Step expands exactly one relation, keyed by the parent ids known after the
// previous step. One collection per query: joining two sibling to-many
// relations would multiply rows and corrupt aggregates.
type Step struct {
	Relation models.Relation
}

// Plan is the ordered query list for a shape plus the descriptor of which
// relations are resolved once it has run. Relations absent from Resolves
// stay unresolved on the returned objects.
type Plan struct {
	Shape    Shape
	Root     RootKind
	Steps    []Step
	Resolves []models.Relation
}

// planFor builds the plan for a shape. The step order is significant: a
// deeper collection (Module.Lessons) is keyed by ids produced by the step
// above it (Course.Modules).
func planFor(shape Shape) (*Plan, error) {
	var root RootKind
	var steps []Step

	switch shape {
	case ShapeCourseModules:
		root = RootCourse
		steps = []Step{{Relation: models.RelCourseModules}}
	case ShapeCourseFull:
		root = RootCourse
		steps = []Step{
			{Relation: models.RelCourseModules},
			{Relation: models.RelModuleLessons},
		}
	case ShapeCourseTags:
		root = RootCourse
		steps = []Step{{Relation: models.RelCourseTags}}
	case ShapeQuizFull:
		root = RootQuiz
		steps = []Step{
			{Relation: models.RelQuizQuestions},
			{Relation: models.RelQuestionOptions},
		}
	case ShapeUserProfile:
		root = RootUser
		steps = []Step{{Relation: models.RelUserProfile}}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedShape, shape)
	}

	resolves := make([]models.Relation, 0, len(steps))
	for _, s := range steps {
		resolves = append(resolves, s.Relation)
	}

	return &Plan{Shape: shape, Root: root, Steps: steps, Resolves: resolves}, nil
}
