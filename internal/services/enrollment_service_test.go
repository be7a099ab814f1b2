package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-hub/learning-platform/internal/events"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/validator"
)

func newEnrollmentFixture() (*fakeRepo, *events.MockEventPublisher, EnrollmentService) {
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := NewEnrollmentService(repo, discardLogger(), validator.New(), publisher)
	return repo, publisher, svc
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("student enrolls on a course", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		student := repo.addUser(models.RoleStudent)
		teacher := repo.addUser(models.RoleTeacher)
		course := repo.addCourse(teacher.ID)

		enrollment, err := svc.Enroll(ctx, &EnrollRequest{StudentID: student.ID, CourseID: course.ID})
		if err != nil {
			t.Fatalf("Enroll failed: %v", err)
		}
		if enrollment.Status != models.EnrollmentActive {
			t.Errorf("Expected ACTIVE enrollment, got %s", enrollment.Status)
		}
		if enrollment.ID == 0 {
			t.Error("Enrollment should have been assigned an id")
		}
	})

	t.Run("second enroll on the same course fails", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		student := repo.addUser(models.RoleStudent)
		course := repo.addCourse(repo.addUser(models.RoleTeacher).ID)
		repo.addEnrollment(student.ID, course.ID, models.EnrollmentActive)

		_, err := svc.Enroll(ctx, &EnrollRequest{StudentID: student.ID, CourseID: course.ID})
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("Expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	t.Run("teacher cannot enroll as student", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		teacher := repo.addUser(models.RoleTeacher)
		course := repo.addCourse(teacher.ID)

		_, err := svc.Enroll(ctx, &EnrollRequest{StudentID: teacher.ID, CourseID: course.ID})
		if !errors.Is(err, ErrNotAStudent) {
			t.Errorf("Expected ErrNotAStudent, got %v", err)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		course := repo.addCourse(repo.addUser(models.RoleTeacher).ID)

		_, err := svc.Enroll(ctx, &EnrollRequest{StudentID: 999, CourseID: course.ID})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		student := repo.addUser(models.RoleStudent)

		_, err := svc.Enroll(ctx, &EnrollRequest{StudentID: student.ID, CourseID: 999})
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects out-of-range progress", func(t *testing.T) {
		_, _, svc := newEnrollmentFixture()

		for _, pct := range []int{-1, 101} {
			_, err := svc.UpdateProgress(ctx, 1, &UpdateProgressRequest{ProgressPercentage: pct})
			if KindOf(err) != KindInvalidInput {
				t.Errorf("Expected KindInvalidInput for %d, got %v", pct, err)
			}
		}
	})

	t.Run("partial progress stays active and publishes nothing", func(t *testing.T) {
		repo, publisher, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentActive)

		updated, err := svc.UpdateProgress(ctx, e.ID, &UpdateProgressRequest{ProgressPercentage: 40})
		if err != nil {
			t.Fatalf("UpdateProgress failed: %v", err)
		}
		if updated.Status != models.EnrollmentActive || updated.ProgressPercentage != 40 {
			t.Errorf("Unexpected enrollment state: %+v", updated)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be published before completion")
		}
	})

	t.Run("reaching 100 auto-completes and publishes", func(t *testing.T) {
		repo, publisher, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentActive)

		updated, err := svc.UpdateProgress(ctx, e.ID, &UpdateProgressRequest{ProgressPercentage: 100})
		if err != nil {
			t.Fatalf("UpdateProgress failed: %v", err)
		}
		if updated.Status != models.EnrollmentCompleted {
			t.Errorf("Expected COMPLETED, got %s", updated.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeEnrollmentCompleted {
			t.Errorf("Expected one enrollment.completed event, got %v", published)
		}
	})

	t.Run("dropped enrollment stays dropped at 100", func(t *testing.T) {
		repo, publisher, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentDropped)

		updated, err := svc.UpdateProgress(ctx, e.ID, &UpdateProgressRequest{ProgressPercentage: 100})
		if err != nil {
			t.Fatalf("UpdateProgress failed: %v", err)
		}
		if updated.Status != models.EnrollmentDropped {
			t.Errorf("Expected DROPPED, got %s", updated.Status)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Dropped enrollment must not publish completion")
		}
	})

	t.Run("completed enrollment rejects further updates", func(t *testing.T) {
		repo, publisher, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentCompleted)
		e.ProgressPercentage = 100

		_, err := svc.UpdateProgress(ctx, e.ID, &UpdateProgressRequest{ProgressPercentage: 40})
		if !errors.Is(err, ErrEnrollmentCompleted) {
			t.Errorf("Expected ErrEnrollmentCompleted, got %v", err)
		}
		if e.ProgressPercentage != 100 {
			t.Errorf("Completed enrollment's progress must not regress, got %d", e.ProgressPercentage)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Rejected update must not publish")
		}
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		_, _, svc := newEnrollmentFixture()

		_, err := svc.UpdateProgress(ctx, 404, &UpdateProgressRequest{ProgressPercentage: 50})
		if !errors.Is(err, ErrEnrollmentNotFound) {
			t.Errorf("Expected ErrEnrollmentNotFound, got %v", err)
		}
	})
}

func TestEnrollmentService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("completes with a final grade", func(t *testing.T) {
		repo, publisher, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentActive)

		grade := 92.5
		completed, err := svc.Complete(ctx, e.ID, &CompleteEnrollmentRequest{FinalGrade: &grade})
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if completed.Status != models.EnrollmentCompleted || completed.ProgressPercentage != 100 {
			t.Errorf("Unexpected state after complete: %+v", completed)
		}
		if completed.FinalGrade == nil || *completed.FinalGrade != grade {
			t.Errorf("Expected final grade %v, got %v", grade, completed.FinalGrade)
		}
		if len(publisher.GetPublishedEvents()) != 1 {
			t.Error("Completion should publish one event")
		}
	})

	t.Run("completing twice fails", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentActive)

		if _, err := svc.Complete(ctx, e.ID, &CompleteEnrollmentRequest{}); err != nil {
			t.Fatalf("First complete failed: %v", err)
		}
		_, err := svc.Complete(ctx, e.ID, &CompleteEnrollmentRequest{})
		if !errors.Is(err, ErrEnrollmentCompleted) {
			t.Errorf("Expected ErrEnrollmentCompleted, got %v", err)
		}
	})

	t.Run("rejects out-of-range final grade", func(t *testing.T) {
		repo, _, svc := newEnrollmentFixture()
		e := repo.addEnrollment(1, 2, models.EnrollmentActive)

		bad := 120.0
		_, err := svc.Complete(ctx, e.ID, &CompleteEnrollmentRequest{FinalGrade: &bad})
		if KindOf(err) != KindInvalidInput {
			t.Errorf("Expected KindInvalidInput, got %v", err)
		}
	})
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	ctx := context.Background()
	repo, publisher, svc := newEnrollmentFixture()
	e := repo.addEnrollment(7, 8, models.EnrollmentActive)
	e.ProgressPercentage = 60

	dropped, err := svc.Unenroll(ctx, e.ID)
	if err != nil {
		t.Fatalf("Unenroll failed: %v", err)
	}
	if dropped.Status != models.EnrollmentDropped {
		t.Errorf("Expected DROPPED, got %s", dropped.Status)
	}
	if dropped.ProgressPercentage != 60 {
		t.Errorf("Dropping should keep progress, got %d", dropped.ProgressPercentage)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeEnrollmentDropped {
		t.Errorf("Expected one enrollment.dropped event, got %v", published)
	}
}

func TestEnrollmentService_CountActiveByCourse(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newEnrollmentFixture()
	repo.addEnrollment(1, 5, models.EnrollmentActive)
	repo.addEnrollment(2, 5, models.EnrollmentActive)
	repo.addEnrollment(3, 5, models.EnrollmentDropped)
	repo.addEnrollment(4, 6, models.EnrollmentActive)

	count, err := svc.CountActiveByCourse(ctx, 5)
	if err != nil {
		t.Fatalf("CountActiveByCourse failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 active enrollments, got %d", count)
	}
}
