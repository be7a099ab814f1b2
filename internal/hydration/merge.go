package hydration

import (
	"context"
	"fmt"

	"github.com/campus-hub/learning-platform/internal/models"
)

// resolveCourses runs the course-rooted plan steps in order and stitches
// child rows onto the parents built by the root query. Parents are reused
// and extended across steps, never re-instantiated.
func resolveCourses(ctx context.Context, r queryRunner, plan *Plan, ids []uint) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	courses, err := r.findCourses(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}

	byID := make(map[uint]*models.Course, len(courses))
	courseIDs := make([]uint, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		courseIDs = append(courseIDs, c.ID)
	}

	for _, step := range plan.Steps {
		switch step.Relation {
		case models.RelCourseModules:
			modules, err := r.findModulesByCourse(ctx, courseIDs)
			if err != nil {
				return nil, err
			}
			for i := range modules {
				parent := byID[modules[i].CourseID]
				parent.Modules = append(parent.Modules, modules[i])
			}
			for _, c := range courses {
				c.MarkResolved(models.RelCourseModules)
			}

		case models.RelModuleLessons:
			// Keyed by the module ids the previous step produced. The map
			// points into the parents' slices so lessons land on the same
			// module values the caller will see.
			moduleByID := make(map[uint]*models.Module)
			var moduleIDs []uint
			for _, c := range courses {
				for j := range c.Modules {
					m := &c.Modules[j]
					moduleByID[m.ID] = m
					moduleIDs = append(moduleIDs, m.ID)
				}
			}
			if len(moduleIDs) > 0 {
				lessons, err := r.findLessonsByModule(ctx, moduleIDs)
				if err != nil {
					return nil, err
				}
				for i := range lessons {
					parent := moduleByID[lessons[i].ModuleID]
					parent.Lessons = append(parent.Lessons, lessons[i])
				}
			}
			for _, m := range moduleByID {
				m.MarkResolved(models.RelModuleLessons)
			}

		case models.RelCourseTags:
			rows, err := r.findTagsByCourse(ctx, courseIDs)
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				parent := byID[row.CourseID]
				parent.Tags = append(parent.Tags, models.Tag{
					ID:        row.TagID,
					Name:      row.Name,
					CreatedAt: row.CreatedAt,
				})
			}
			for _, c := range courses {
				c.MarkResolved(models.RelCourseTags)
			}

		default:
			return nil, fmt.Errorf("hydration: plan %q contains step %q outside the course graph", plan.Shape, step.Relation)
		}
	}

	return courses, nil
}

// resolveQuizzes hydrates quiz-rooted plans: questions keyed by quiz id,
// then options keyed by the question ids from the step before.
func resolveQuizzes(ctx context.Context, r queryRunner, plan *Plan, ids []uint) ([]*models.Quiz, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	quizzes, err := r.findQuizzes(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, nil
	}

	byID := make(map[uint]*models.Quiz, len(quizzes))
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = q
		quizIDs = append(quizIDs, q.ID)
	}

	for _, step := range plan.Steps {
		switch step.Relation {
		case models.RelQuizQuestions:
			questions, err := r.findQuestionsByQuiz(ctx, quizIDs)
			if err != nil {
				return nil, err
			}
			for i := range questions {
				parent := byID[questions[i].QuizID]
				parent.Questions = append(parent.Questions, questions[i])
			}
			for _, q := range quizzes {
				q.MarkResolved(models.RelQuizQuestions)
			}

		case models.RelQuestionOptions:
			questionByID := make(map[uint]*models.Question)
			var questionIDs []uint
			for _, q := range quizzes {
				for j := range q.Questions {
					question := &q.Questions[j]
					questionByID[question.ID] = question
					questionIDs = append(questionIDs, question.ID)
				}
			}
			if len(questionIDs) > 0 {
				options, err := r.findOptionsByQuestion(ctx, questionIDs)
				if err != nil {
					return nil, err
				}
				for i := range options {
					parent := questionByID[options[i].QuestionID]
					parent.Options = append(parent.Options, options[i])
				}
			}
			for _, question := range questionByID {
				question.MarkResolved(models.RelQuestionOptions)
			}

		default:
			return nil, fmt.Errorf("hydration: plan %q contains step %q outside the quiz graph", plan.Shape, step.Relation)
		}
	}

	return quizzes, nil
}

// resolveUsers hydrates user-rooted plans (owned profile).
func resolveUsers(ctx context.Context, r queryRunner, plan *Plan, ids []uint) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := r.findUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	byID := make(map[uint]*models.User, len(users))
	userIDs := make([]uint, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		userIDs = append(userIDs, u.ID)
	}

	for _, step := range plan.Steps {
		switch step.Relation {
		case models.RelUserProfile:
			profiles, err := r.findProfilesByUser(ctx, userIDs)
			if err != nil {
				return nil, err
			}
			for i := range profiles {
				p := profiles[i]
				byID[p.UserID].Profile = &p
			}
			for _, u := range users {
				u.MarkResolved(models.RelUserProfile)
			}

		default:
			return nil, fmt.Errorf("hydration: plan %q contains step %q outside the user graph", plan.Shape, step.Relation)
		}
	}

	return users, nil
}
