package services

import (
	"github.com/campus-hub/learning-platform/internal/models"
)

// QuestionResult is the per-question scoring breakdown.
type QuestionResult struct {
	QuestionID  uint   `json:"question_id"`
	Correct     bool   `json:"correct"`
	SelectedIDs []uint `json:"selected_ids"`
	CorrectIDs  []uint `json:"correct_ids"`
}

// ScoreResult is the outcome of scoring one quiz attempt.
type ScoreResult struct {
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Score          int              `json:"score"`
	Breakdown      []QuestionResult `json:"breakdown"`
}

// ScoreQuiz grades an answer map against a quiz hydrated with "quiz-full".
// A question counts as correct only when the selected option set equals the
// correct option set exactly: no partial credit, extra selections fail the
// question, and an unanswered question is wrong. Every question weighs the
// same; the score is the truncated percentage of correct questions. An empty
// quiz scores 0.
func ScoreQuiz(quiz *models.Quiz, answers map[uint][]uint) ScoreResult {
	questions := quiz.HydratedQuestions()

	result := ScoreResult{
		TotalQuestions: len(questions),
		Breakdown:      make([]QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		correctIDs := q.CorrectOptionIDs()
		selected := answers[q.ID]

		correct := sameIDSet(selected, correctIDs)
		if correct {
			result.CorrectAnswers++
		}

		result.Breakdown = append(result.Breakdown, QuestionResult{
			QuestionID:  q.ID,
			Correct:     correct,
			SelectedIDs: selected,
			CorrectIDs:  correctIDs,
		})
	}

	if result.TotalQuestions > 0 {
		result.Score = result.CorrectAnswers * 100 / result.TotalQuestions
	}
	return result
}

// sameIDSet compares two id lists as sets. Duplicated selections of one id
// collapse; order never matters.
func sameIDSet(a, b []uint) bool {
	setA := make(map[uint]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[uint]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}
