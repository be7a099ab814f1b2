package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/campus-hub/learning-platform/internal/events"
	"github.com/campus-hub/learning-platform/internal/hydration"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

// QuizFetcher is the slice of the hydration executor the quiz service needs.
type QuizFetcher interface {
	FetchQuiz(ctx context.Context, id uint, shape hydration.Shape) (*models.Quiz, error)
}

type quizService struct {
	repo      repositories.Repository
	executor  QuizFetcher
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, executor QuizFetcher, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) QuizService {
	return &quizService{
		repo:      repo,
		executor:  executor,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Create attaches a quiz to a module. A module holds at most one quiz; the
// unique index on module_id backs the existence check.
func (s *quizService) Create(ctx context.Context, moduleID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid quiz payload")
	}

	if _, err := s.repo.Modules().GetByID(ctx, moduleID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrModuleNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get module %d", moduleID)
	}

	exists, err := s.repo.Quizzes().ExistsByModule(ctx, moduleID)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to check module quiz")
	}
	if exists {
		return nil, ErrModuleHasQuiz
	}

	quiz := &models.Quiz{
		ModuleID:     moduleID,
		Title:        req.Title,
		PassingScore: req.PassingScore,
	}
	if err := s.repo.Quizzes().Create(ctx, quiz); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrModuleHasQuiz
		}
		return nil, wrapError(KindStore, err, "failed to create quiz")
	}

	s.logger.InfoContext(ctx, "Quiz created", "quiz_id", quiz.ID, "module_id", moduleID)
	return quiz, nil
}

// GetFull hydrates the quiz through the "quiz-full" shape: questions in order
// with their options resolved.
func (s *quizService) GetFull(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.executor.FetchQuiz(ctx, id, hydration.ShapeQuizFull)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to fetch quiz %d", id)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *quizService) GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quizzes().GetByModule(ctx, moduleID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get quiz for module %d", moduleID)
	}
	return quiz, nil
}

func (s *quizService) AddQuestion(ctx context.Context, quizID uint, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid question payload")
	}

	if _, err := s.repo.Quizzes().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get quiz %d", quizID)
	}

	points := req.Points
	if points == 0 {
		points = 1
	}
	question := &models.Question{
		QuizID:     quizID,
		Text:       req.Text,
		Type:       req.Type,
		Points:     points,
		OrderIndex: req.OrderIndex,
	}
	if err := s.repo.Questions().Create(ctx, question); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newError(KindDuplicate, "order index %d already used in quiz %d", req.OrderIndex, quizID)
		}
		return nil, wrapError(KindStore, err, "failed to create question")
	}
	return question, nil
}

func (s *quizService) AddOption(ctx context.Context, questionID uint, req *CreateOptionRequest) (*models.AnswerOption, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid option payload")
	}

	if _, err := s.repo.Questions().GetByID(ctx, questionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get question %d", questionID)
	}

	option := &models.AnswerOption{
		QuestionID: questionID,
		Text:       req.Text,
		IsCorrect:  req.IsCorrect,
	}
	if err := s.repo.AnswerOptions().Create(ctx, option); err != nil {
		return nil, wrapError(KindStore, err, "failed to create option")
	}
	return option, nil
}

// TakeQuiz scores one attempt and stores it. One attempt per (quiz, student):
// the in-transaction existence check yields the friendly error, the unique
// index settles concurrent attempts.
func (s *quizService) TakeQuiz(ctx context.Context, quizID uint, req *TakeQuizRequest) (*TakeQuizResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid attempt payload")
	}

	student, err := s.repo.Users().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get student %d", req.StudentID)
	}
	if !student.IsStudent() {
		return nil, ErrNotAStudent
	}

	quiz, err := s.GetFull(ctx, quizID)
	if err != nil {
		return nil, err
	}

	result := ScoreQuiz(quiz, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, wrapError(KindInvalidInput, err, "failed to encode answers")
	}

	submission := &models.QuizSubmission{
		QuizID:         quizID,
		StudentID:      req.StudentID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Answers:        answersJSON,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		taken, err := tx.QuizSubmissions().ExistsByQuizAndStudent(ctx, quizID, req.StudentID)
		if err != nil {
			return err
		}
		if taken {
			return ErrQuizAlreadyTaken
		}
		return tx.QuizSubmissions().Create(ctx, submission)
	})
	if err != nil {
		if KindOf(err) == KindDuplicate || repositories.IsDuplicateError(err) {
			return nil, ErrQuizAlreadyTaken
		}
		return nil, wrapError(KindStore, err, "failed to store quiz submission")
	}

	if pubErr := s.publisher.Publish(ctx, events.NewEvent(events.TypeQuizSubmitted, events.QuizSubmittedEvent{
		SubmissionID:   submission.ID,
		QuizID:         quizID,
		StudentID:      req.StudentID,
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
	})); pubErr != nil {
		s.logger.ErrorContext(ctx, "Failed to publish quiz submitted event",
			"submission_id", submission.ID, "error", pubErr)
	}

	s.logger.InfoContext(ctx, "Quiz taken",
		"quiz_id", quizID,
		"student_id", req.StudentID,
		"score", result.Score)

	return &TakeQuizResponse{
		Submission: submission,
		Result:     result,
		Passed:     submission.Passed(quiz.PassingScore),
	}, nil
}

func (s *quizService) GetSubmission(ctx context.Context, quizID, studentID uint) (*models.QuizSubmission, error) {
	submission, err := s.repo.QuizSubmissions().GetByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get quiz submission")
	}
	return submission, nil
}

func (s *quizService) GetSubmissionsByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSubmission, error) {
	submissions, err := s.repo.QuizSubmissions().GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list quiz submissions")
	}
	return submissions, nil
}

func (s *quizService) AverageScore(ctx context.Context, quizID uint) (float64, error) {
	avg, err := s.repo.QuizSubmissions().AverageScoreByQuiz(ctx, quizID)
	if err != nil {
		return 0, wrapError(KindStore, err, "failed to compute quiz average")
	}
	return avg, nil
}

func (s *quizService) DidStudentPass(ctx context.Context, quizID, studentID uint) (bool, error) {
	quiz, err := s.repo.Quizzes().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuizNotFound
		}
		return false, wrapError(KindStore, err, "failed to get quiz %d", quizID)
	}

	submission, err := s.GetSubmission(ctx, quizID, studentID)
	if err != nil {
		return false, err
	}
	return submission.Passed(quiz.PassingScore), nil
}
