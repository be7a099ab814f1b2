package models

import (
	"testing"
	"time"
)

func TestSubmission_IsGraded(t *testing.T) {
	s := &Submission{}
	if s.IsGraded() {
		t.Error("submission without a score should not be graded")
	}

	score := 85
	s.Score = &score
	if !s.IsGraded() {
		t.Error("submission with a score should be graded")
	}
}

func TestSubmission_IsLate(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no due date is never late", func(t *testing.T) {
		s := &Submission{SubmittedAt: due.Add(time.Hour)}
		if s.IsLate(&Assignment{}) {
			t.Error("assignment without a due date should never be late")
		}
	})

	t.Run("submitted before due date", func(t *testing.T) {
		s := &Submission{SubmittedAt: due.Add(-time.Hour)}
		if s.IsLate(&Assignment{DueDate: &due}) {
			t.Error("submission before the due date should not be late")
		}
	})

	t.Run("submitted after due date", func(t *testing.T) {
		s := &Submission{SubmittedAt: due.Add(time.Minute)}
		if !s.IsLate(&Assignment{DueDate: &due}) {
			t.Error("submission after the due date should be late")
		}
	})
}

func TestQuizSubmission_Passed(t *testing.T) {
	passing := 70

	tests := []struct {
		name         string
		score        int
		passingScore *int
		want         bool
	}{
		{name: "no passing score always passes", score: 0, passingScore: nil, want: true},
		{name: "score above threshold", score: 80, passingScore: &passing, want: true},
		{name: "score at threshold", score: 70, passingScore: &passing, want: true},
		{name: "score below threshold", score: 69, passingScore: &passing, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &QuizSubmission{Score: tt.score}
			if got := s.Passed(tt.passingScore); got != tt.want {
				t.Errorf("Passed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuizSubmission_PercentageScore(t *testing.T) {
	empty := &QuizSubmission{TotalQuestions: 0}
	if got := empty.PercentageScore(); got != 0 {
		t.Errorf("empty quiz should score 0, got %v", got)
	}

	half := &QuizSubmission{TotalQuestions: 4, CorrectAnswers: 2}
	if got := half.PercentageScore(); got != 50 {
		t.Errorf("Expected 50, got %v", got)
	}
}
