package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// fakeRepo is an in-memory repositories.Repository for service tests. It
// mirrors the store contract: lookups miss with ErrNotFound, existence checks
// answer from the maps, and WithTransaction hands the same state back (tests
// never exercise rollback).
type fakeRepo struct {
	lastID uint

	users       map[uint]*models.User
	profiles    map[uint]*models.Profile
	categories  map[uint]*models.Category
	tags        map[uint]*models.Tag
	courses     map[uint]*models.Course
	modules     map[uint]*models.Module
	lessons     map[uint]*models.Lesson
	assignments map[uint]*models.Assignment
	submissions map[uint]*models.Submission
	quizzes     map[uint]*models.Quiz
	questions   map[uint]*models.Question
	options     map[uint]*models.AnswerOption
	quizSubs    map[uint]*models.QuizSubmission
	enrollments map[uint]*models.Enrollment
	reviews     map[uint]*models.CourseReview
	courseTags  map[uint][]uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       make(map[uint]*models.User),
		profiles:    make(map[uint]*models.Profile),
		categories:  make(map[uint]*models.Category),
		tags:        make(map[uint]*models.Tag),
		courses:     make(map[uint]*models.Course),
		modules:     make(map[uint]*models.Module),
		lessons:     make(map[uint]*models.Lesson),
		assignments: make(map[uint]*models.Assignment),
		submissions: make(map[uint]*models.Submission),
		quizzes:     make(map[uint]*models.Quiz),
		questions:   make(map[uint]*models.Question),
		options:     make(map[uint]*models.AnswerOption),
		quizSubs:    make(map[uint]*models.QuizSubmission),
		enrollments: make(map[uint]*models.Enrollment),
		reviews:     make(map[uint]*models.CourseReview),
		courseTags:  make(map[uint][]uint),
	}
}

func (f *fakeRepo) nextID() uint {
	f.lastID++
	return f.lastID
}

func (f *fakeRepo) Users() repositories.UserRepository                     { return &fakeUsers{f} }
func (f *fakeRepo) Categories() repositories.CategoryRepository           { return &fakeCategories{f} }
func (f *fakeRepo) Tags() repositories.TagRepository                      { return &fakeTags{f} }
func (f *fakeRepo) Courses() repositories.CourseRepository                { return &fakeCourses{f} }
func (f *fakeRepo) Modules() repositories.ModuleRepository                { return &fakeModules{f} }
func (f *fakeRepo) Lessons() repositories.LessonRepository                { return &fakeLessons{f} }
func (f *fakeRepo) Assignments() repositories.AssignmentRepository        { return &fakeAssignments{f} }
func (f *fakeRepo) Submissions() repositories.SubmissionRepository        { return &fakeSubmissions{f} }
func (f *fakeRepo) Quizzes() repositories.QuizRepository                  { return &fakeQuizzes{f} }
func (f *fakeRepo) Questions() repositories.QuestionRepository            { return &fakeQuestions{f} }
func (f *fakeRepo) AnswerOptions() repositories.AnswerOptionRepository    { return &fakeOptions{f} }
func (f *fakeRepo) QuizSubmissions() repositories.QuizSubmissionRepository { return &fakeQuizSubs{f} }
func (f *fakeRepo) Enrollments() repositories.EnrollmentRepository        { return &fakeEnrollments{f} }
func (f *fakeRepo) Reviews() repositories.ReviewRepository                { return &fakeReviews{f} }

func (f *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeRepo) Close() error                   { return nil }

// Seeding helpers keep test setup short.

func (f *fakeRepo) addUser(role models.UserRole) *models.User {
	u := &models.User{ID: f.nextID(), Name: "user", Email: "", Role: role}
	u.Email = fmt.Sprintf("user%d@example.com", u.ID)
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) addCourse(teacherID uint) *models.Course {
	c := &models.Course{ID: f.nextID(), Title: "course", TeacherID: teacherID}
	f.courses[c.ID] = c
	return c
}

func (f *fakeRepo) addModule(courseID uint) *models.Module {
	m := &models.Module{ID: f.nextID(), CourseID: courseID, Title: "module"}
	f.modules[m.ID] = m
	return m
}

func (f *fakeRepo) addLesson(moduleID uint) *models.Lesson {
	l := &models.Lesson{ID: f.nextID(), ModuleID: moduleID, Title: "lesson"}
	f.lessons[l.ID] = l
	return l
}

func (f *fakeRepo) addEnrollment(studentID, courseID uint, status models.EnrollmentStatus) *models.Enrollment {
	e := &models.Enrollment{ID: f.nextID(), StudentID: studentID, CourseID: courseID, Status: status}
	f.enrollments[e.ID] = e
	return e
}

func (f *fakeRepo) addAssignment(lessonID uint, maxScore int) *models.Assignment {
	a := &models.Assignment{ID: f.nextID(), LessonID: lessonID, Title: "assignment", MaxScore: maxScore}
	f.assignments[a.ID] = a
	return a
}

// ===== sub-repositories =====

type fakeUsers struct{ r *fakeRepo }

func (s *fakeUsers) Create(ctx context.Context, user *models.User) error {
	for _, u := range s.r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = s.r.nextID()
	s.r.users[user.ID] = user
	return nil
}

func (s *fakeUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := s.r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (s *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *fakeUsers) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUsers) Update(ctx context.Context, user *models.User) error {
	if _, ok := s.r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.r.users[user.ID] = user
	return nil
}

func (s *fakeUsers) Delete(ctx context.Context, id uint) error {
	if _, ok := s.r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.r.users, id)
	return nil
}

func (s *fakeUsers) SaveProfile(ctx context.Context, profile *models.Profile) error {
	for _, p := range s.r.profiles {
		if p.UserID == profile.UserID {
			profile.ID = p.ID
			s.r.profiles[p.ID] = profile
			return nil
		}
	}
	profile.ID = s.r.nextID()
	s.r.profiles[profile.ID] = profile
	return nil
}

func (s *fakeUsers) GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	for _, p := range s.r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeCategories struct{ r *fakeRepo }

func (s *fakeCategories) Create(ctx context.Context, category *models.Category) error {
	category.ID = s.r.nextID()
	s.r.categories[category.ID] = category
	return nil
}

func (s *fakeCategories) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	c, ok := s.r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (s *fakeCategories) List(ctx context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range s.r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCategories) Delete(ctx context.Context, id uint) error {
	delete(s.r.categories, id)
	return nil
}

type fakeTags struct{ r *fakeRepo }

func (s *fakeTags) Create(ctx context.Context, tag *models.Tag) error {
	for _, t := range s.r.tags {
		if t.Name == tag.Name {
			return repositories.ErrDuplicate
		}
	}
	tag.ID = s.r.nextID()
	s.r.tags[tag.ID] = tag
	return nil
}

func (s *fakeTags) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	t, ok := s.r.tags[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return t, nil
}

func (s *fakeTags) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	for _, t := range s.r.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeTags) GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error) {
	if t, err := s.GetByName(ctx, name); err == nil {
		return t, nil
	}
	t := &models.Tag{Name: name}
	if err := s.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *fakeTags) List(ctx context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range s.r.tags {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTags) Delete(ctx context.Context, id uint) error {
	delete(s.r.tags, id)
	return nil
}

type fakeCourses struct{ r *fakeRepo }

func (s *fakeCourses) Create(ctx context.Context, course *models.Course) error {
	course.ID = s.r.nextID()
	s.r.courses[course.ID] = course
	return nil
}

func (s *fakeCourses) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	c, ok := s.r.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (s *fakeCourses) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.r.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.r.courses[course.ID] = course
	return nil
}

func (s *fakeCourses) Delete(ctx context.Context, id uint) error {
	if _, ok := s.r.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.r.courses, id)
	return nil
}

func (s *fakeCourses) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range s.r.courses {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *fakeCourses) GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range s.r.courses {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCourses) GetByCategory(ctx context.Context, categoryID uint) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range s.r.courses {
		if c.CategoryID != nil && *c.CategoryID == categoryID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCourses) SearchByTitle(ctx context.Context, title string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range s.r.courses {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(title)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCourses) GetByTag(ctx context.Context, tagName string) ([]*models.Course, error) {
	return nil, nil
}

func (s *fakeCourses) GetPopular(ctx context.Context, limit int) ([]*models.Course, error) {
	return nil, nil
}

func (s *fakeCourses) AddTag(ctx context.Context, courseID, tagID uint) error {
	s.r.courseTags[courseID] = append(s.r.courseTags[courseID], tagID)
	return nil
}

func (s *fakeCourses) RemoveTag(ctx context.Context, courseID, tagID uint) error {
	ids := s.r.courseTags[courseID]
	var kept []uint
	for _, id := range ids {
		if id != tagID {
			kept = append(kept, id)
		}
	}
	s.r.courseTags[courseID] = kept
	return nil
}

type fakeModules struct{ r *fakeRepo }

func (s *fakeModules) Create(ctx context.Context, module *models.Module) error {
	for _, m := range s.r.modules {
		if m.CourseID == module.CourseID && m.OrderIndex == module.OrderIndex {
			return repositories.ErrDuplicate
		}
	}
	module.ID = s.r.nextID()
	s.r.modules[module.ID] = module
	return nil
}

func (s *fakeModules) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	m, ok := s.r.modules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return m, nil
}

func (s *fakeModules) GetByCourse(ctx context.Context, courseID uint) ([]*models.Module, error) {
	var out []*models.Module
	for _, m := range s.r.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeModules) Update(ctx context.Context, module *models.Module) error {
	s.r.modules[module.ID] = module
	return nil
}

func (s *fakeModules) Delete(ctx context.Context, id uint) error {
	delete(s.r.modules, id)
	return nil
}

type fakeLessons struct{ r *fakeRepo }

func (s *fakeLessons) Create(ctx context.Context, lesson *models.Lesson) error {
	for _, l := range s.r.lessons {
		if l.ModuleID == lesson.ModuleID && l.OrderIndex == lesson.OrderIndex {
			return repositories.ErrDuplicate
		}
	}
	lesson.ID = s.r.nextID()
	s.r.lessons[lesson.ID] = lesson
	return nil
}

func (s *fakeLessons) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	l, ok := s.r.lessons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l, nil
}

func (s *fakeLessons) GetByModule(ctx context.Context, moduleID uint) ([]*models.Lesson, error) {
	var out []*models.Lesson
	for _, l := range s.r.lessons {
		if l.ModuleID == moduleID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLessons) Update(ctx context.Context, lesson *models.Lesson) error {
	s.r.lessons[lesson.ID] = lesson
	return nil
}

func (s *fakeLessons) Delete(ctx context.Context, id uint) error {
	delete(s.r.lessons, id)
	return nil
}

type fakeAssignments struct{ r *fakeRepo }

func (s *fakeAssignments) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = s.r.nextID()
	s.r.assignments[assignment.ID] = assignment
	return nil
}

func (s *fakeAssignments) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	a, ok := s.r.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (s *fakeAssignments) GetByLesson(ctx context.Context, lessonID uint) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range s.r.assignments {
		if a.LessonID == lessonID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAssignments) Update(ctx context.Context, assignment *models.Assignment) error {
	s.r.assignments[assignment.ID] = assignment
	return nil
}

func (s *fakeAssignments) Delete(ctx context.Context, id uint) error {
	delete(s.r.assignments, id)
	return nil
}

type fakeSubmissions struct{ r *fakeRepo }

func (s *fakeSubmissions) Create(ctx context.Context, submission *models.Submission) error {
	for _, sub := range s.r.submissions {
		if sub.AssignmentID == submission.AssignmentID && sub.StudentID == submission.StudentID {
			return repositories.ErrDuplicate
		}
	}
	submission.ID = s.r.nextID()
	s.r.submissions[submission.ID] = submission
	return nil
}

func (s *fakeSubmissions) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	sub, ok := s.r.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return sub, nil
}

func (s *fakeSubmissions) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := s.r.submissions[submission.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.r.submissions[submission.ID] = submission
	return nil
}

func (s *fakeSubmissions) GetByAssignment(ctx context.Context, assignmentID uint) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, sub := range s.r.submissions {
		if sub.AssignmentID == assignmentID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeSubmissions) GetByStudent(ctx context.Context, studentID uint) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, sub := range s.r.submissions {
		if sub.StudentID == studentID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeSubmissions) ExistsByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (bool, error) {
	for _, sub := range s.r.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSubmissions) ListUngraded(ctx context.Context) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, sub := range s.r.submissions {
		if sub.Score == nil {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeSubmissions) AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error) {
	var sum, n int
	for _, sub := range s.r.submissions {
		if sub.StudentID == studentID && sub.Score != nil {
			sum += *sub.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

type fakeQuizzes struct{ r *fakeRepo }

func (s *fakeQuizzes) Create(ctx context.Context, quiz *models.Quiz) error {
	for _, q := range s.r.quizzes {
		if q.ModuleID == quiz.ModuleID {
			return repositories.ErrDuplicate
		}
	}
	quiz.ID = s.r.nextID()
	s.r.quizzes[quiz.ID] = quiz
	return nil
}

func (s *fakeQuizzes) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	q, ok := s.r.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q, nil
}

func (s *fakeQuizzes) GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error) {
	for _, q := range s.r.quizzes {
		if q.ModuleID == moduleID {
			return q, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeQuizzes) ExistsByModule(ctx context.Context, moduleID uint) (bool, error) {
	_, err := s.GetByModule(ctx, moduleID)
	return err == nil, nil
}

func (s *fakeQuizzes) Update(ctx context.Context, quiz *models.Quiz) error {
	s.r.quizzes[quiz.ID] = quiz
	return nil
}

func (s *fakeQuizzes) Delete(ctx context.Context, id uint) error {
	delete(s.r.quizzes, id)
	return nil
}

type fakeQuestions struct{ r *fakeRepo }

func (s *fakeQuestions) Create(ctx context.Context, question *models.Question) error {
	for _, q := range s.r.questions {
		if q.QuizID == question.QuizID && q.OrderIndex == question.OrderIndex {
			return repositories.ErrDuplicate
		}
	}
	question.ID = s.r.nextID()
	s.r.questions[question.ID] = question
	return nil
}

func (s *fakeQuestions) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	q, ok := s.r.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q, nil
}

func (s *fakeQuestions) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range s.r.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeQuestions) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	qs, _ := s.GetByQuiz(ctx, quizID)
	return int64(len(qs)), nil
}

func (s *fakeQuestions) Delete(ctx context.Context, id uint) error {
	delete(s.r.questions, id)
	return nil
}

type fakeOptions struct{ r *fakeRepo }

func (s *fakeOptions) Create(ctx context.Context, option *models.AnswerOption) error {
	option.ID = s.r.nextID()
	s.r.options[option.ID] = option
	return nil
}

func (s *fakeOptions) GetByID(ctx context.Context, id uint) (*models.AnswerOption, error) {
	o, ok := s.r.options[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (s *fakeOptions) GetByQuestion(ctx context.Context, questionID uint) ([]*models.AnswerOption, error) {
	var out []*models.AnswerOption
	for _, o := range s.r.options {
		if o.QuestionID == questionID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOptions) Delete(ctx context.Context, id uint) error {
	delete(s.r.options, id)
	return nil
}

type fakeQuizSubs struct{ r *fakeRepo }

func (s *fakeQuizSubs) Create(ctx context.Context, submission *models.QuizSubmission) error {
	for _, sub := range s.r.quizSubs {
		if sub.QuizID == submission.QuizID && sub.StudentID == submission.StudentID {
			return repositories.ErrDuplicate
		}
	}
	submission.ID = s.r.nextID()
	s.r.quizSubs[submission.ID] = submission
	return nil
}

func (s *fakeQuizSubs) GetByID(ctx context.Context, id uint) (*models.QuizSubmission, error) {
	sub, ok := s.r.quizSubs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return sub, nil
}

func (s *fakeQuizSubs) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (*models.QuizSubmission, error) {
	for _, sub := range s.r.quizSubs {
		if sub.QuizID == quizID && sub.StudentID == studentID {
			return sub, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeQuizSubs) ExistsByQuizAndStudent(ctx context.Context, quizID, studentID uint) (bool, error) {
	_, err := s.GetByQuizAndStudent(ctx, quizID, studentID)
	return err == nil, nil
}

func (s *fakeQuizSubs) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSubmission, error) {
	var out []*models.QuizSubmission
	for _, sub := range s.r.quizSubs {
		if sub.QuizID == quizID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeQuizSubs) GetByStudent(ctx context.Context, studentID uint) ([]*models.QuizSubmission, error) {
	var out []*models.QuizSubmission
	for _, sub := range s.r.quizSubs {
		if sub.StudentID == studentID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeQuizSubs) AverageScoreByQuiz(ctx context.Context, quizID uint) (float64, error) {
	var sum, n int
	for _, sub := range s.r.quizSubs {
		if sub.QuizID == quizID {
			sum += sub.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (s *fakeQuizSubs) AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error) {
	var sum, n int
	for _, sub := range s.r.quizSubs {
		if sub.StudentID == studentID {
			sum += sub.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

type fakeEnrollments struct{ r *fakeRepo }

func (s *fakeEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, e := range s.r.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return repositories.ErrDuplicate
		}
	}
	enrollment.ID = s.r.nextID()
	s.r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (s *fakeEnrollments) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	e, ok := s.r.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return e, nil
}

func (s *fakeEnrollments) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := s.r.enrollments[enrollment.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (s *fakeEnrollments) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	for _, e := range s.r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeEnrollments) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	_, err := s.GetByStudentAndCourse(ctx, studentID, courseID)
	return err == nil, nil
}

func (s *fakeEnrollments) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range s.r.enrollments {
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		if filters.StudentID != nil && e.StudentID != *filters.StudentID {
			continue
		}
		if filters.CourseID != nil && e.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (s *fakeEnrollments) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var n int64
	for _, e := range s.r.enrollments {
		if e.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (s *fakeEnrollments) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	for _, e := range s.r.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (s *fakeEnrollments) CountByCourseAndStatus(ctx context.Context, courseID uint, status models.EnrollmentStatus) (int64, error) {
	var n int64
	for _, e := range s.r.enrollments {
		if e.CourseID == courseID && e.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeReviews struct{ r *fakeRepo }

func (s *fakeReviews) Create(ctx context.Context, review *models.CourseReview) error {
	for _, rv := range s.r.reviews {
		if rv.CourseID == review.CourseID && rv.StudentID == review.StudentID {
			return repositories.ErrDuplicate
		}
	}
	review.ID = s.r.nextID()
	s.r.reviews[review.ID] = review
	return nil
}

func (s *fakeReviews) GetByID(ctx context.Context, id uint) (*models.CourseReview, error) {
	rv, ok := s.r.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return rv, nil
}

func (s *fakeReviews) ExistsByCourseAndStudent(ctx context.Context, courseID, studentID uint) (bool, error) {
	for _, rv := range s.r.reviews {
		if rv.CourseID == courseID && rv.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeReviews) GetByCourse(ctx context.Context, courseID uint) ([]*models.CourseReview, error) {
	var out []*models.CourseReview
	for _, rv := range s.r.reviews {
		if rv.CourseID == courseID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (s *fakeReviews) Delete(ctx context.Context, id uint) error {
	if _, ok := s.r.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.r.reviews, id)
	return nil
}

func (s *fakeReviews) AverageRatingByCourse(ctx context.Context, courseID uint) (float64, error) {
	var sum, n int
	for _, rv := range s.r.reviews {
		if rv.CourseID == courseID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
