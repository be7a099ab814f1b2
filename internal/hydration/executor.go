package hydration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/models"
)

// FetchState tracks a single fetch call through its lifecycle. Closed and
// Failed are terminal; a Failed fetch never returns a partial graph.
type FetchState int

const (
	StatePlanned FetchState = iota
	StateExecuting
	StateMerged
	StateClosed
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StatePlanned:
		return "planned"
	case StateExecuting:
		return "executing"
	case StateMerged:
		return "merged"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// queryRunner is the seam between graph stitching and the store. The gorm
// implementation runs inside one read-only transaction; tests substitute a
// fake to count queries and feed canned rows.
type queryRunner interface {
	findCourses(ctx context.Context, ids []uint) ([]*models.Course, error)
	findModulesByCourse(ctx context.Context, courseIDs []uint) ([]models.Module, error)
	findLessonsByModule(ctx context.Context, moduleIDs []uint) ([]models.Lesson, error)
	findTagsByCourse(ctx context.Context, courseIDs []uint) ([]courseTagRow, error)
	findQuizzes(ctx context.Context, ids []uint) ([]*models.Quiz, error)
	findQuestionsByQuiz(ctx context.Context, quizIDs []uint) ([]models.Question, error)
	findOptionsByQuestion(ctx context.Context, questionIDs []uint) ([]models.AnswerOption, error)
	findUsers(ctx context.Context, ids []uint) ([]*models.User, error)
	findProfilesByUser(ctx context.Context, userIDs []uint) ([]models.Profile, error)
}

// courseTagRow carries the join-table parent key next to the tag columns so
// tags can be stitched back onto the right course.
type courseTagRow struct {
	CourseID  uint      `gorm:"column:course_id"`
	TagID     uint      `gorm:"column:tag_id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// Executor runs hydration plans against the store. Every fetch is wrapped in
// a single read-only transaction that is closed before results are returned;
// the caller owns the detached graph.
type Executor struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewExecutor(db *gorm.DB, logger *slog.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

// FetchCourse hydrates one course with the given shape. A missing id yields
// (nil, nil); translating that into a not-found error is the caller's call.
func (e *Executor) FetchCourse(ctx context.Context, id uint, shape Shape) (*models.Course, error) {
	courses, err := e.FetchCourses(ctx, []uint{id}, shape)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}
	return courses[0], nil
}

// FetchCourses hydrates a batch of courses with the given shape. The query
// count depends only on the plan depth, never on how many rows come back.
func (e *Executor) FetchCourses(ctx context.Context, ids []uint, shape Shape) ([]*models.Course, error) {
	plan, err := planFor(shape)
	if err != nil {
		return nil, err
	}
	if plan.Root != RootCourse {
		return nil, fmt.Errorf("%w: %q does not fetch courses", ErrUnsupportedShape, shape)
	}

	var out []*models.Course
	err = e.run(ctx, plan, func(r queryRunner) error {
		courses, err := resolveCourses(ctx, r, plan, ids)
		if err != nil {
			return err
		}
		out = courses
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchQuiz hydrates one quiz with the given shape, nil when absent.
func (e *Executor) FetchQuiz(ctx context.Context, id uint, shape Shape) (*models.Quiz, error) {
	plan, err := planFor(shape)
	if err != nil {
		return nil, err
	}
	if plan.Root != RootQuiz {
		return nil, fmt.Errorf("%w: %q does not fetch quizzes", ErrUnsupportedShape, shape)
	}

	var out *models.Quiz
	err = e.run(ctx, plan, func(r queryRunner) error {
		quizzes, err := resolveQuizzes(ctx, r, plan, []uint{id})
		if err != nil {
			return err
		}
		if len(quizzes) > 0 {
			out = quizzes[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchUser hydrates one user with the given shape, nil when absent.
func (e *Executor) FetchUser(ctx context.Context, id uint, shape Shape) (*models.User, error) {
	plan, err := planFor(shape)
	if err != nil {
		return nil, err
	}
	if plan.Root != RootUser {
		return nil, fmt.Errorf("%w: %q does not fetch users", ErrUnsupportedShape, shape)
	}

	var out *models.User
	err = e.run(ctx, plan, func(r queryRunner) error {
		users, err := resolveUsers(ctx, r, plan, []uint{id})
		if err != nil {
			return err
		}
		if len(users) > 0 {
			out = users[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// run executes fn inside one read-only transaction and drives the fetch
// state machine. The transaction is committed (or rolled back) before run
// returns, so no query can escape the fetch window.
func (e *Executor) run(ctx context.Context, plan *Plan, fn func(queryRunner) error) error {
	state := StatePlanned
	start := time.Now()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state = StateExecuting
		if err := fn(&gormRunner{tx: tx}); err != nil {
			return err
		}
		state = StateMerged
		return nil
	}, &sql.TxOptions{ReadOnly: true})

	if err != nil {
		state = StateFailed
		e.logger.Error("Fetch failed",
			"shape", string(plan.Shape),
			"state", state.String(),
			"error", err)
		return fmt.Errorf("hydration: fetch %q failed: %w", plan.Shape, err)
	}

	state = StateClosed
	e.logger.Debug("Fetch closed",
		"shape", string(plan.Shape),
		"steps", len(plan.Steps),
		"elapsed", time.Since(start))
	return nil
}

// gormRunner is the store-backed queryRunner. All child queries are keyed by
// parent id sets, one collection per query.
type gormRunner struct {
	tx *gorm.DB
}

func (r *gormRunner) findCourses(ctx context.Context, ids []uint) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.tx.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *gormRunner) findModulesByCourse(ctx context.Context, courseIDs []uint) ([]models.Module, error) {
	var modules []models.Module
	if err := r.tx.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id, order_index ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *gormRunner) findLessonsByModule(ctx context.Context, moduleIDs []uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := r.tx.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *gormRunner) findTagsByCourse(ctx context.Context, courseIDs []uint) ([]courseTagRow, error) {
	var rows []courseTagRow
	if err := r.tx.WithContext(ctx).
		Table("tags").
		Select("course_tags.course_id AS course_id, tags.id AS tag_id, tags.name AS name, tags.created_at AS created_at").
		Joins("JOIN course_tags ON course_tags.tag_id = tags.id").
		Where("course_tags.course_id IN ?", courseIDs).
		Order("tags.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRunner) findQuizzes(ctx context.Context, ids []uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := r.tx.WithContext(ctx).Where("id IN ?", ids).Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *gormRunner) findQuestionsByQuiz(ctx context.Context, quizIDs []uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.tx.WithContext(ctx).
		Where("quiz_id IN ?", quizIDs).
		Order("quiz_id, order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *gormRunner) findOptionsByQuestion(ctx context.Context, questionIDs []uint) ([]models.AnswerOption, error) {
	var options []models.AnswerOption
	if err := r.tx.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id, id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *gormRunner) findUsers(ctx context.Context, ids []uint) ([]*models.User, error) {
	var users []*models.User
	if err := r.tx.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormRunner) findProfilesByUser(ctx context.Context, userIDs []uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.tx.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
