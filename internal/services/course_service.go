package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campus-hub/learning-platform/internal/hydration"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	executor  *hydration.Executor
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, executor *hydration.Executor, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		executor:  executor,
		logger:    logger,
		validator: validator,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid course payload")
	}

	teacher, err := s.repo.Users().GetByID(ctx, req.TeacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get teacher %d", req.TeacherID)
	}
	if !teacher.IsTeacher() {
		return nil, ErrNotATeacher
	}

	if req.CategoryID != nil {
		if _, err := s.repo.Categories().GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, newError(KindNotFound, "category %d not found", *req.CategoryID)
			}
			return nil, wrapError(KindStore, err, "failed to get category")
		}
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		CategoryID:  req.CategoryID,
	}

	// Course row and its initial tag set land together or not at all.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Courses().Create(ctx, course); err != nil {
			return err
		}
		for _, name := range req.Tags {
			tag, err := tx.Tags().GetOrCreateByName(ctx, name)
			if err != nil {
				return err
			}
			if err := tx.Courses().AddTag(ctx, course.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to create course")
	}

	s.logger.InfoContext(ctx, "Course created",
		"course_id", course.ID,
		"teacher_id", course.TeacherID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Courses().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get course %d", id)
	}
	return course, nil
}

// Fetch hydrates the course with a named shape. Unknown shapes surface as
// UnsupportedShape, not as a 404.
func (s *courseService) Fetch(ctx context.Context, id uint, shapeName string) (*models.Course, error) {
	shape, err := hydration.ParseShape(shapeName)
	if err != nil {
		return nil, wrapError(KindUnsupportedShape, err, "unknown fetch shape %q", shapeName)
	}

	course, err := s.executor.FetchCourse(ctx, id, shape)
	if err != nil {
		if errors.Is(err, hydration.ErrUnsupportedShape) {
			return nil, wrapError(KindUnsupportedShape, err, "shape %q does not apply to courses", shapeName)
		}
		return nil, wrapError(KindStore, err, "failed to fetch course %d", id)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid course payload")
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.repo.Categories().GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, newError(KindNotFound, "category %d not found", *req.CategoryID)
			}
			return nil, wrapError(KindStore, err, "failed to get category")
		}
		course.CategoryID = req.CategoryID
	}

	if err := s.repo.Courses().Update(ctx, course); err != nil {
		return nil, wrapError(KindStore, err, "failed to update course %d", id)
	}
	return course, nil
}

// Delete removes the course and, through the owned-relation cascades, its
// modules, lessons, quizzes and assignments. Tags and enrollments survive.
func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Courses().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return wrapError(KindStore, err, "failed to delete course %d", id)
	}
	s.logger.InfoContext(ctx, "Course deleted", "course_id", id)
	return nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Courses().List(ctx, filters)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list courses")
	}
	return &CourseListResponse{Courses: courses, Total: total}, nil
}

func (s *courseService) SearchByTitle(ctx context.Context, title string) ([]*models.Course, error) {
	if title == "" {
		return nil, newError(KindInvalidInput, "search title must not be empty")
	}
	courses, err := s.repo.Courses().SearchByTitle(ctx, title)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to search courses")
	}
	return courses, nil
}

func (s *courseService) GetByTag(ctx context.Context, tagName string) ([]*models.Course, error) {
	courses, err := s.repo.Courses().GetByTag(ctx, tagName)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list courses by tag")
	}
	return courses, nil
}

func (s *courseService) GetPopular(ctx context.Context, limit int) ([]*models.Course, error) {
	courses, err := s.repo.Courses().GetPopular(ctx, limit)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list popular courses")
	}
	return courses, nil
}

func (s *courseService) AddModule(ctx context.Context, courseID uint, req *CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid module payload")
	}

	if _, err := s.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:   courseID,
		Title:      req.Title,
		OrderIndex: req.OrderIndex,
	}
	if err := s.repo.Modules().Create(ctx, module); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newError(KindDuplicate, "order index %d already used in course %d", req.OrderIndex, courseID)
		}
		return nil, wrapError(KindStore, err, "failed to create module")
	}
	return module, nil
}

func (s *courseService) AddLesson(ctx context.Context, moduleID uint, req *CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid lesson payload")
	}

	if _, err := s.repo.Modules().GetByID(ctx, moduleID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrModuleNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get module %d", moduleID)
	}

	lesson := &models.Lesson{
		ModuleID:   moduleID,
		Title:      req.Title,
		Content:    req.Content,
		OrderIndex: req.OrderIndex,
	}
	if err := s.repo.Lessons().Create(ctx, lesson); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newError(KindDuplicate, "order index %d already used in module %d", req.OrderIndex, moduleID)
		}
		return nil, wrapError(KindStore, err, "failed to create lesson")
	}
	return lesson, nil
}

func (s *courseService) AddTag(ctx context.Context, courseID uint, tagName string) error {
	if tagName == "" {
		return newError(KindInvalidInput, "tag name must not be empty")
	}
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return err
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		tag, err := tx.Tags().GetOrCreateByName(ctx, tagName)
		if err != nil {
			return wrapError(KindStore, err, "failed to resolve tag %q", tagName)
		}
		if err := tx.Courses().AddTag(ctx, courseID, tag.ID); err != nil {
			return wrapError(KindStore, err, "failed to tag course %d", courseID)
		}
		return nil
	})
}

func (s *courseService) RemoveTag(ctx context.Context, courseID uint, tagName string) error {
	tag, err := s.repo.Tags().GetByName(ctx, tagName)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return newError(KindNotFound, "tag %q not found", tagName)
		}
		return wrapError(KindStore, err, "failed to get tag %q", tagName)
	}
	if err := s.repo.Courses().RemoveTag(ctx, courseID, tag.ID); err != nil {
		return wrapError(KindStore, err, "failed to untag course %d", courseID)
	}
	return nil
}

func (s *courseService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid category payload")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Categories().Create(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newError(KindDuplicate, "category %q already exists", req.Name)
		}
		return nil, wrapError(KindStore, err, "failed to create category")
	}
	return category, nil
}

func (s *courseService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.Categories().List(ctx)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list categories")
	}
	return categories, nil
}

func (s *courseService) AverageRating(ctx context.Context, courseID uint) (float64, error) {
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return 0, err
	}
	avg, err := s.repo.Reviews().AverageRatingByCourse(ctx, courseID)
	if err != nil {
		return 0, wrapError(KindStore, err, "failed to compute course rating")
	}
	return avg, nil
}
