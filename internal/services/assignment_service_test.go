package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-hub/learning-platform/internal/events"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/validator"
)

func newAssignmentFixture() (*fakeRepo, *events.MockEventPublisher, AssignmentService) {
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := NewAssignmentService(repo, discardLogger(), validator.New(), publisher)
	return repo, publisher, svc
}

func TestAssignmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates on an existing lesson", func(t *testing.T) {
		repo, _, svc := newAssignmentFixture()
		lesson := repo.addLesson(repo.addModule(repo.addCourse(1).ID).ID)

		assignment, err := svc.Create(ctx, lesson.ID, &CreateAssignmentRequest{Title: "Essay", MaxScore: 100})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if assignment.LessonID != lesson.ID || assignment.MaxScore != 100 {
			t.Errorf("Unexpected assignment: %+v", assignment)
		}
	})

	t.Run("unknown lesson", func(t *testing.T) {
		_, _, svc := newAssignmentFixture()

		_, err := svc.Create(ctx, 404, &CreateAssignmentRequest{Title: "Orphan", MaxScore: 10})
		if !errors.Is(err, ErrLessonNotFound) {
			t.Errorf("Expected ErrLessonNotFound, got %v", err)
		}
	})
}

func TestAssignmentService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("student submits once", func(t *testing.T) {
		repo, _, svc := newAssignmentFixture()
		student := repo.addUser(models.RoleStudent)
		assignment := repo.addAssignment(repo.addLesson(1).ID, 100)

		submission, err := svc.Submit(ctx, assignment.ID, &SubmitAssignmentRequest{
			StudentID: student.ID,
			Content:   "my answer",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if submission.IsGraded() {
			t.Error("Fresh submission must not be graded")
		}

		_, err = svc.Submit(ctx, assignment.ID, &SubmitAssignmentRequest{
			StudentID: student.ID,
			Content:   "second try",
		})
		if !errors.Is(err, ErrAlreadySubmitted) {
			t.Errorf("Expected ErrAlreadySubmitted, got %v", err)
		}
	})

	t.Run("teacher cannot submit", func(t *testing.T) {
		repo, _, svc := newAssignmentFixture()
		teacher := repo.addUser(models.RoleTeacher)
		assignment := repo.addAssignment(repo.addLesson(1).ID, 100)

		_, err := svc.Submit(ctx, assignment.ID, &SubmitAssignmentRequest{
			StudentID: teacher.ID,
			Content:   "should not land",
		})
		if !errors.Is(err, ErrNotAStudent) {
			t.Errorf("Expected ErrNotAStudent, got %v", err)
		}
	})

	t.Run("unknown assignment", func(t *testing.T) {
		repo, _, svc := newAssignmentFixture()
		student := repo.addUser(models.RoleStudent)

		_, err := svc.Submit(ctx, 404, &SubmitAssignmentRequest{StudentID: student.ID, Content: "x"})
		if !errors.Is(err, ErrAssignmentNotFound) {
			t.Errorf("Expected ErrAssignmentNotFound, got %v", err)
		}
	})
}

func TestAssignmentService_Grade(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, repo *fakeRepo, svc AssignmentService, maxScore int) *models.Submission {
		t.Helper()
		student := repo.addUser(models.RoleStudent)
		assignment := repo.addAssignment(repo.addLesson(1).ID, maxScore)
		submission, err := svc.Submit(ctx, assignment.ID, &SubmitAssignmentRequest{
			StudentID: student.ID,
			Content:   "answer",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		return submission
	}

	t.Run("grades within max score and publishes", func(t *testing.T) {
		repo, publisher, svc := newAssignmentFixture()
		submission := submit(t, repo, svc, 50)

		feedback := "solid work"
		graded, err := svc.Grade(ctx, submission.ID, &GradeSubmissionRequest{Score: 45, Feedback: &feedback})
		if err != nil {
			t.Fatalf("Grade failed: %v", err)
		}
		if !graded.IsGraded() || *graded.Score != 45 {
			t.Errorf("Unexpected graded submission: %+v", graded)
		}
		if graded.GradedAt == nil {
			t.Error("GradedAt should be set")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeSubmissionGraded {
			t.Errorf("Expected one submission.graded event, got %v", published)
		}
	})

	t.Run("score above max score rejected", func(t *testing.T) {
		repo, _, svc := newAssignmentFixture()
		submission := submit(t, repo, svc, 50)

		_, err := svc.Grade(ctx, submission.ID, &GradeSubmissionRequest{Score: 51})
		if KindOf(err) != KindInvalidInput {
			t.Errorf("Expected KindInvalidInput, got %v", err)
		}
	})

	t.Run("unknown submission", func(t *testing.T) {
		_, _, svc := newAssignmentFixture()

		_, err := svc.Grade(ctx, 404, &GradeSubmissionRequest{Score: 10})
		if !errors.Is(err, ErrSubmissionNotFound) {
			t.Errorf("Expected ErrSubmissionNotFound, got %v", err)
		}
	})
}

func TestAssignmentService_ListUngradedAndAverage(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newAssignmentFixture()
	student := repo.addUser(models.RoleStudent)
	first := repo.addAssignment(repo.addLesson(1).ID, 100)
	second := repo.addAssignment(repo.addLesson(2).ID, 100)

	subA, err := svc.Submit(ctx, first.ID, &SubmitAssignmentRequest{StudentID: student.ID, Content: "a"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := svc.Submit(ctx, second.ID, &SubmitAssignmentRequest{StudentID: student.ID, Content: "b"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	ungraded, err := svc.ListUngraded(ctx)
	if err != nil {
		t.Fatalf("ListUngraded failed: %v", err)
	}
	if len(ungraded) != 2 {
		t.Errorf("Expected 2 ungraded submissions, got %d", len(ungraded))
	}

	if _, err := svc.Grade(ctx, subA.ID, &GradeSubmissionRequest{Score: 80}); err != nil {
		t.Fatalf("Grade failed: %v", err)
	}

	ungraded, _ = svc.ListUngraded(ctx)
	if len(ungraded) != 1 {
		t.Errorf("Expected 1 ungraded submission after grading, got %d", len(ungraded))
	}

	avg, err := svc.StudentAverageScore(ctx, student.ID)
	if err != nil {
		t.Fatalf("StudentAverageScore failed: %v", err)
	}
	if avg != 80 {
		t.Errorf("Expected average 80 over graded submissions only, got %v", avg)
	}
}
