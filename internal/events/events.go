package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types routed through the platform topic.
const (
	TypeEnrollmentCompleted = "enrollment.completed"
	TypeEnrollmentDropped   = "enrollment.dropped"
	TypeQuizSubmitted       = "quiz.submitted"
	TypeSubmissionGraded    = "submission.graded"
)

const (
	// Topic is the single platform event stream; consumers filter on Type.
	Topic = "learning-platform.events"

	eventSource  = "learning-platform"
	eventVersion = "1.0"
)

// Event is the envelope every published payload travels in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps a payload in a fully populated envelope.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EnrollmentCompletedEvent fires when progress reaches one hundred percent
// and the enrollment flips to COMPLETED.
type EnrollmentCompletedEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

// EnrollmentDroppedEvent fires when a student drops a course.
type EnrollmentDroppedEvent struct {
	EnrollmentID uint `json:"enrollment_id"`
	StudentID    uint `json:"student_id"`
	CourseID     uint `json:"course_id"`
}

// QuizSubmittedEvent fires after a quiz attempt has been scored and stored.
type QuizSubmittedEvent struct {
	SubmissionID   uint `json:"submission_id"`
	QuizID         uint `json:"quiz_id"`
	StudentID      uint `json:"student_id"`
	Score          int  `json:"score"`
	CorrectAnswers int  `json:"correct_answers"`
	TotalQuestions int  `json:"total_questions"`
}

// SubmissionGradedEvent fires when a teacher grades an assignment submission.
type SubmissionGradedEvent struct {
	SubmissionID uint `json:"submission_id"`
	AssignmentID uint `json:"assignment_id"`
	StudentID    uint `json:"student_id"`
	Score        int  `json:"score"`
}
