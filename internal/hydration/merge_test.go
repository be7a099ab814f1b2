package hydration

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-hub/learning-platform/internal/models"
)

// fakeRunner serves canned rows and counts every query so tests can assert
// the bounded-cost property: query count depends on plan depth, not on row
// counts.
type fakeRunner struct {
	queries int

	courses  []*models.Course
	modules  []models.Module
	lessons  []models.Lesson
	tagRows  []courseTagRow
	quizzes  []*models.Quiz
	question []models.Question
	options  []models.AnswerOption
	users    []*models.User
	profiles []models.Profile

	failOn string
}

func (f *fakeRunner) fail(step string) error {
	if f.failOn == step {
		return errors.New("store unavailable")
	}
	return nil
}

func (f *fakeRunner) findCourses(ctx context.Context, ids []uint) ([]*models.Course, error) {
	f.queries++
	if err := f.fail("courses"); err != nil {
		return nil, err
	}
	var out []*models.Course
	for _, c := range f.courses {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeRunner) findModulesByCourse(ctx context.Context, courseIDs []uint) ([]models.Module, error) {
	f.queries++
	if err := f.fail("modules"); err != nil {
		return nil, err
	}
	return f.modules, nil
}

func (f *fakeRunner) findLessonsByModule(ctx context.Context, moduleIDs []uint) ([]models.Lesson, error) {
	f.queries++
	if err := f.fail("lessons"); err != nil {
		return nil, err
	}
	return f.lessons, nil
}

func (f *fakeRunner) findTagsByCourse(ctx context.Context, courseIDs []uint) ([]courseTagRow, error) {
	f.queries++
	return f.tagRows, nil
}

func (f *fakeRunner) findQuizzes(ctx context.Context, ids []uint) ([]*models.Quiz, error) {
	f.queries++
	return f.quizzes, nil
}

func (f *fakeRunner) findQuestionsByQuiz(ctx context.Context, quizIDs []uint) ([]models.Question, error) {
	f.queries++
	return f.question, nil
}

func (f *fakeRunner) findOptionsByQuestion(ctx context.Context, questionIDs []uint) ([]models.AnswerOption, error) {
	f.queries++
	return f.options, nil
}

func (f *fakeRunner) findUsers(ctx context.Context, ids []uint) ([]*models.User, error) {
	f.queries++
	return f.users, nil
}

func (f *fakeRunner) findProfilesByUser(ctx context.Context, userIDs []uint) ([]models.Profile, error) {
	f.queries++
	return f.profiles, nil
}

func mustPlan(t *testing.T, shape Shape) *Plan {
	t.Helper()
	plan, err := planFor(shape)
	if err != nil {
		t.Fatalf("planFor(%q) failed: %v", shape, err)
	}
	return plan
}

func TestResolveCourses_CourseFull(t *testing.T) {
	runner := &fakeRunner{
		courses: []*models.Course{{ID: 1, Title: "Go"}, {ID: 2, Title: "SQL"}},
		modules: []models.Module{
			{ID: 10, CourseID: 1, Title: "Basics", OrderIndex: 0},
			{ID: 11, CourseID: 1, Title: "Advanced", OrderIndex: 1},
			{ID: 12, CourseID: 2, Title: "Queries", OrderIndex: 0},
		},
		lessons: []models.Lesson{
			{ID: 100, ModuleID: 10, Title: "Hello", OrderIndex: 0},
			{ID: 101, ModuleID: 10, Title: "Types", OrderIndex: 1},
			{ID: 102, ModuleID: 12, Title: "SELECT", OrderIndex: 0},
		},
	}

	courses, err := resolveCourses(context.Background(), runner, mustPlan(t, ShapeCourseFull), []uint{1, 2})
	if err != nil {
		t.Fatalf("resolveCourses failed: %v", err)
	}

	// Root + one query per step, regardless of row counts.
	if runner.queries != 3 {
		t.Errorf("Expected 3 queries for course-full, got %d", runner.queries)
	}
	if len(courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(courses))
	}

	first := courses[0]
	modules := first.HydratedModules()
	if len(modules) != 2 {
		t.Fatalf("Expected 2 modules on course 1, got %d", len(modules))
	}

	// Lessons must land on the same module values the caller traverses.
	lessons := modules[0].HydratedLessons()
	if len(lessons) != 2 {
		t.Errorf("Expected 2 lessons on module 10, got %d", len(lessons))
	}
	if len(modules[1].HydratedLessons()) != 0 {
		t.Errorf("Module 11 has no lessons, got %d", len(modules[1].Lessons))
	}

	// Relations outside the shape stay unresolved.
	if first.IsResolved(models.RelCourseTags) {
		t.Error("course-full must not resolve tags")
	}
	if modules[0].IsResolved(models.RelModuleQuiz) {
		t.Error("course-full must not resolve module quizzes")
	}
}

func TestResolveCourses_MissingIDYieldsNil(t *testing.T) {
	runner := &fakeRunner{}

	courses, err := resolveCourses(context.Background(), runner, mustPlan(t, ShapeCourseModules), []uint{99})
	if err != nil {
		t.Fatalf("resolveCourses failed: %v", err)
	}
	if courses != nil {
		t.Errorf("missing id should yield nil, got %v", courses)
	}
	if runner.queries != 1 {
		t.Errorf("child steps must not run without parents, got %d queries", runner.queries)
	}
}

func TestResolveCourses_FailureReturnsNoPartialGraph(t *testing.T) {
	runner := &fakeRunner{
		courses: []*models.Course{{ID: 1}},
		modules: []models.Module{{ID: 10, CourseID: 1}},
		failOn:  "lessons",
	}

	courses, err := resolveCourses(context.Background(), runner, mustPlan(t, ShapeCourseFull), []uint{1})
	if err == nil {
		t.Fatal("Expected the lessons step failure to surface")
	}
	if courses != nil {
		t.Error("a failed fetch must not hand back a partial graph")
	}
}

func TestResolveCourses_Tags(t *testing.T) {
	runner := &fakeRunner{
		courses: []*models.Course{{ID: 1}},
		tagRows: []courseTagRow{
			{CourseID: 1, TagID: 5, Name: "go"},
			{CourseID: 1, TagID: 6, Name: "programming"},
		},
	}

	courses, err := resolveCourses(context.Background(), runner, mustPlan(t, ShapeCourseTags), []uint{1})
	if err != nil {
		t.Fatalf("resolveCourses failed: %v", err)
	}

	tags := courses[0].HydratedTags()
	if len(tags) != 2 || tags[0].Name != "go" || tags[1].Name != "programming" {
		t.Errorf("Unexpected tags: %v", tags)
	}
	if courses[0].IsResolved(models.RelCourseModules) {
		t.Error("course-tags must not resolve modules")
	}
}

func TestResolveQuizzes_QuizFull(t *testing.T) {
	runner := &fakeRunner{
		quizzes: []*models.Quiz{{ID: 1, Title: "Basics Check"}},
		question: []models.Question{
			{ID: 20, QuizID: 1, OrderIndex: 0},
			{ID: 21, QuizID: 1, OrderIndex: 1},
		},
		options: []models.AnswerOption{
			{ID: 200, QuestionID: 20, IsCorrect: true},
			{ID: 201, QuestionID: 20},
			{ID: 202, QuestionID: 21, IsCorrect: true},
		},
	}

	quizzes, err := resolveQuizzes(context.Background(), runner, mustPlan(t, ShapeQuizFull), []uint{1})
	if err != nil {
		t.Fatalf("resolveQuizzes failed: %v", err)
	}
	if runner.queries != 3 {
		t.Errorf("Expected 3 queries for quiz-full, got %d", runner.queries)
	}

	questions := quizzes[0].HydratedQuestions()
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	if got := questions[0].CorrectOptionIDs(); len(got) != 1 || got[0] != 200 {
		t.Errorf("Expected correct option [200], got %v", got)
	}
	if got := questions[1].CorrectOptionIDs(); len(got) != 1 || got[0] != 202 {
		t.Errorf("Expected correct option [202], got %v", got)
	}
}

func TestResolveUsers_Profile(t *testing.T) {
	bio := "hello"
	runner := &fakeRunner{
		users:    []*models.User{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Alan"}},
		profiles: []models.Profile{{ID: 50, UserID: 1, Bio: &bio}},
	}

	users, err := resolveUsers(context.Background(), runner, mustPlan(t, ShapeUserProfile), []uint{1, 2})
	if err != nil {
		t.Fatalf("resolveUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}

	profile := users[0].HydratedProfile()
	if profile == nil || profile.UserID != 1 {
		t.Errorf("Expected user 1 profile, got %+v", profile)
	}

	// Hydrated but absent: nil without panicking.
	if users[1].HydratedProfile() != nil {
		t.Error("user 2 has no profile, expected nil")
	}
}
