package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/cache"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// ===== COURSES =====

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cacheManager: cm}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return translateError(err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := c.db.WithContext(ctx).First(&dbCourse, id).Error; err != nil {
			return nil, translateError(err)
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Save(course).Error; err != nil {
		return translateError(err)
	}
	cache.InvalidateCourse(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateCourse(ctx, c.cacheManager, id)
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	// apply filters first
	query := c.db.WithContext(ctx).Model(&models.Course{})
	query = c.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	// then pagination and sorting
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) applyFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Title != nil {
		query = query.Where("title ILIKE ?", "%"+*filters.Title+"%")
	}
	if filters.Tag != nil {
		query = query.
			Joins("JOIN course_tags ON course_tags.course_id = courses.id").
			Joins("JOIN tags ON tags.id = course_tags.tag_id").
			Where("tags.name = ?", *filters.Tag)
	}
	return query
}

func (c *CoursePostgreSQL) GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) GetByCategory(ctx context.Context, categoryID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) SearchByTitle(ctx context.Context, title string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+title+"%").
		Order("title ASC").
		Find(&courses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) GetByTag(ctx context.Context, tagName string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Joins("JOIN course_tags ON course_tags.course_id = courses.id").
		Joins("JOIN tags ON tags.id = course_tags.tag_id").
		Where("tags.name = ?", tagName).
		Order("courses.created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

// GetPopular ranks courses by enrollment count. The result is cached under
// the stats prefix since the aggregate is the expensive part.
func (c *CoursePostgreSQL) GetPopular(ctx context.Context, limit int) ([]*models.Course, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("popular:limit:%d", limit)
	var courses []*models.Course

	err := c.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &courses, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbCourses []*models.Course
		err := c.db.WithContext(ctx).
			Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
			Group("courses.id").
			Order("COUNT(enrollments.id) DESC").
			Limit(limit).
			Find(&dbCourses).Error
		if err != nil {
			return nil, translateError(err)
		}
		return dbCourses, nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CoursePostgreSQL) AddTag(ctx context.Context, courseID, tagID uint) error {
	err := c.db.WithContext(ctx).
		Exec("INSERT INTO course_tags (course_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING", courseID, tagID).Error
	if err != nil {
		return translateError(err)
	}
	cache.InvalidateCourse(ctx, c.cacheManager, courseID)
	return nil
}

func (c *CoursePostgreSQL) RemoveTag(ctx context.Context, courseID, tagID uint) error {
	err := c.db.WithContext(ctx).
		Exec("DELETE FROM course_tags WHERE course_id = ? AND tag_id = ?", courseID, tagID).Error
	if err != nil {
		return translateError(err)
	}
	cache.InvalidateCourse(ctx, c.cacheManager, courseID)
	return nil
}

// ===== MODULES =====

type ModulePostgreSQL struct {
	db *gorm.DB
}

func NewModulePostgreSQL(db *gorm.DB) repositories.ModuleRepository {
	return &ModulePostgreSQL{db: db}
}

func (m *ModulePostgreSQL) Create(ctx context.Context, module *models.Module) error {
	if err := m.db.WithContext(ctx).Create(module).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (m *ModulePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	if err := m.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &module, nil
}

func (m *ModulePostgreSQL) GetByCourse(ctx context.Context, courseID uint) ([]*models.Module, error) {
	var modules []*models.Module
	err := m.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&modules).Error
	if err != nil {
		return nil, translateError(err)
	}
	return modules, nil
}

func (m *ModulePostgreSQL) Update(ctx context.Context, module *models.Module) error {
	if err := m.db.WithContext(ctx).Save(module).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (m *ModulePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := m.db.WithContext(ctx).Delete(&models.Module{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== LESSONS =====

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (l *LessonPostgreSQL) Create(ctx context.Context, lesson *models.Lesson) error {
	if err := l.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &lesson, nil
}

func (l *LessonPostgreSQL) GetByModule(ctx context.Context, moduleID uint) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := l.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("order_index ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, translateError(err)
	}
	return lessons, nil
}

func (l *LessonPostgreSQL) Update(ctx context.Context, lesson *models.Lesson) error {
	if err := l.db.WithContext(ctx).Save(lesson).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (l *LessonPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.Lesson{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== CATEGORIES =====

type CategoryPostgreSQL struct {
	db *gorm.DB
}

func NewCategoryPostgreSQL(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryPostgreSQL{db: db}
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := c.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translateError(err)
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== TAGS =====

type TagPostgreSQL struct {
	db *gorm.DB
}

func NewTagPostgreSQL(db *gorm.DB) repositories.TagRepository {
	return &TagPostgreSQL{db: db}
}

func (t *TagPostgreSQL) Create(ctx context.Context, tag *models.Tag) error {
	if err := t.db.WithContext(ctx).Create(tag).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (t *TagPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := t.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &tag, nil
}

func (t *TagPostgreSQL) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := t.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translateError(err)
	}
	return &tag, nil
}

// GetOrCreateByName resolves a tag by name, creating it on first use. A
// concurrent insert losing the race falls back to reading the winner's row.
func (t *TagPostgreSQL) GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := t.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	created := &models.Tag{Name: name}
	if err := t.Create(ctx, created); err != nil {
		if repositories.IsDuplicateError(err) {
			return t.GetByName(ctx, name)
		}
		return nil, err
	}
	return created, nil
}

func (t *TagPostgreSQL) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := t.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, translateError(err)
	}
	return tags, nil
}

func (t *TagPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
