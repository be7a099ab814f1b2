package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// Run bootstraps a demo catalog so a fresh environment has something to look
// at. It is a no-op when any user already exists.
func Run(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	existing, err := repo.Users().GetByEmail(ctx, "ada.teacher@example.com")
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("seed precheck failed: %w", err)
	}
	if existing != nil {
		logger.Info("Seed data already present, skipping")
		return nil
	}

	logger.Info("Seeding demo data")

	return repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		teacher := &models.User{Name: "Ada Lovelace", Email: "ada.teacher@example.com", Role: models.RoleTeacher}
		student := &models.User{Name: "Alan Turing", Email: "alan.student@example.com", Role: models.RoleStudent}
		for _, u := range []*models.User{teacher, student} {
			if err := tx.Users().Create(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		desc := "Programming fundamentals"
		category := &models.Category{Name: "Computer Science", Description: &desc}
		if err := tx.Categories().Create(ctx, category); err != nil {
			return fmt.Errorf("seed category: %w", err)
		}

		course := &models.Course{
			Title:      "Introduction to Go",
			TeacherID:  teacher.ID,
			CategoryID: &category.ID,
		}
		if err := tx.Courses().Create(ctx, course); err != nil {
			return fmt.Errorf("seed course: %w", err)
		}

		tag, err := tx.Tags().GetOrCreateByName(ctx, "programming")
		if err != nil {
			return fmt.Errorf("seed tag: %w", err)
		}
		if err := tx.Courses().AddTag(ctx, course.ID, tag.ID); err != nil {
			return fmt.Errorf("seed course tag: %w", err)
		}

		module := &models.Module{CourseID: course.ID, Title: "Getting Started", OrderIndex: 0}
		if err := tx.Modules().Create(ctx, module); err != nil {
			return fmt.Errorf("seed module: %w", err)
		}

		content := "Install the toolchain and write your first program."
		lesson := &models.Lesson{ModuleID: module.ID, Title: "Hello, World", Content: &content, OrderIndex: 0}
		if err := tx.Lessons().Create(ctx, lesson); err != nil {
			return fmt.Errorf("seed lesson: %w", err)
		}

		passing := 60
		quiz := &models.Quiz{ModuleID: module.ID, Title: "Basics Check", PassingScore: &passing}
		if err := tx.Quizzes().Create(ctx, quiz); err != nil {
			return fmt.Errorf("seed quiz: %w", err)
		}

		question := &models.Question{
			QuizID:     quiz.ID,
			Text:       "Which keyword declares a function?",
			Type:       models.SingleChoice,
			Points:     1,
			OrderIndex: 0,
		}
		if err := tx.Questions().Create(ctx, question); err != nil {
			return fmt.Errorf("seed question: %w", err)
		}

		options := []*models.AnswerOption{
			{QuestionID: question.ID, Text: "func", IsCorrect: true},
			{QuestionID: question.ID, Text: "def", IsCorrect: false},
			{QuestionID: question.ID, Text: "fn", IsCorrect: false},
		}
		for _, opt := range options {
			if err := tx.AnswerOptions().Create(ctx, opt); err != nil {
				return fmt.Errorf("seed option: %w", err)
			}
		}
		return nil
	})
}
