package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
)

// Quiz is owned 1:1 by a module. It owns its questions and the submissions
// students made against it.
type Quiz struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	ModuleID uint   `json:"module_id" gorm:"not null;uniqueIndex"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`

	// Minimum percentage score to pass; nil means the quiz cannot be failed.
	PassingScore *int `json:"passing_score" validate:"omitempty,min=0,max=100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned, ordered by Question.OrderIndex. Resolved by "quiz-full".
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Owned write-once attempt records.
	Submissions []QuizSubmission `json:"submissions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	RelState `json:"-" gorm:"-"`
}

// HydratedQuestions returns the quiz questions in orderIndex order. Panics
// when questions were not part of the fetch shape.
func (q *Quiz) HydratedQuestions() []Question {
	q.mustResolved(RelQuizQuestions)
	return q.Questions
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_question_quiz_order,priority:1"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required,max=2000"`
	Type   QuestionType `json:"type" gorm:"not null;size:20" validate:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE"`

	// Carried on the entity but not used by scoring: the observed scoring
	// model weights every question equally (percentage of correct answers).
	Points int `json:"points" gorm:"not null;default:1" validate:"min=1,max=100"`

	OrderIndex int `json:"order_index" gorm:"not null;uniqueIndex:idx_question_quiz_order,priority:2" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned. Resolved by "quiz-full".
	Options []AnswerOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	RelState `json:"-" gorm:"-"`
}

// HydratedOptions returns the answer options. Panics when options were not
// part of the fetch shape.
func (q *Question) HydratedOptions() []AnswerOption {
	q.mustResolved(RelQuestionOptions)
	return q.Options
}

// CorrectOptionIDs returns the ids of the options flagged correct. Requires
// the options to be hydrated.
func (q *Question) CorrectOptionIDs() []uint {
	var ids []uint
	for _, opt := range q.HydratedOptions() {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

func (Question) TableName() string {
	return "questions"
}

type AnswerOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:500" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// QuizSubmission records one student's single attempt at a quiz. Write-once:
// one row per (quiz, student), enforced by the unique index.
type QuizSubmission struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	QuizID    uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_submission_quiz_student,priority:1"`
	StudentID uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_quiz_submission_quiz_student,priority:2"`

	Score          int `json:"score" gorm:"not null"`
	TotalQuestions int `json:"total_questions" gorm:"not null"`
	CorrectAnswers int `json:"correct_answers" gorm:"not null"`

	// Snapshot of the submitted answer map (questionID -> option ids), kept
	// for review screens and re-grade audits.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	TakenAt time.Time `json:"taken_at" gorm:"autoCreateTime"`
}

// PercentageScore derives the percentage from the correctness counters.
func (s *QuizSubmission) PercentageScore() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) * 100 / float64(s.TotalQuestions)
}

// Passed reports whether the stored score meets the quiz passing score. A
// quiz without a passing score always passes.
func (s *QuizSubmission) Passed(passingScore *int) bool {
	if passingScore == nil {
		return true
	}
	return s.Score >= *passingScore
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
