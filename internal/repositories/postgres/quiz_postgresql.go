package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/cache"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

// ===== QUIZZES =====

type QuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db, cacheManager: cm}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := q.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var quiz models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := q.db.WithContext(ctx).First(&dbQuiz, id).Error; err != nil {
			return nil, translateError(err)
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).Where("module_id = ?", moduleID).First(&quiz).Error; err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) ExistsByModule(ctx context.Context, moduleID uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	if err := q.db.WithContext(ctx).Save(quiz).Error; err != nil {
		return translateError(err)
	}
	cache.InvalidateQuiz(ctx, q.cacheManager, quiz.ID)
	return nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateQuiz(ctx, q.cacheManager, id)
	return nil
}

// ===== QUESTIONS =====

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== ANSWER OPTIONS =====

type AnswerOptionPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerOptionPostgreSQL(db *gorm.DB) repositories.AnswerOptionRepository {
	return &AnswerOptionPostgreSQL{db: db}
}

func (a *AnswerOptionPostgreSQL) Create(ctx context.Context, option *models.AnswerOption) error {
	if err := a.db.WithContext(ctx).Create(option).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (a *AnswerOptionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AnswerOption, error) {
	var option models.AnswerOption
	if err := a.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &option, nil
}

func (a *AnswerOptionPostgreSQL) GetByQuestion(ctx context.Context, questionID uint) ([]*models.AnswerOption, error) {
	var options []*models.AnswerOption
	err := a.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&options).Error
	if err != nil {
		return nil, translateError(err)
	}
	return options, nil
}

func (a *AnswerOptionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.AnswerOption{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== QUIZ SUBMISSIONS =====

type QuizSubmissionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuizSubmissionPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.QuizSubmissionRepository {
	return &QuizSubmissionPostgreSQL{db: db, cacheManager: cm}
}

func (s *QuizSubmissionPostgreSQL) Create(ctx context.Context, submission *models.QuizSubmission) error {
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return translateError(err)
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Stats, fmt.Sprintf("quiz:%d:*", submission.QuizID))
	return nil
}

func (s *QuizSubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *QuizSubmissionPostgreSQL) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (*models.QuizSubmission, error) {
	var submission models.QuizSubmission
	err := s.db.WithContext(ctx).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&submission).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *QuizSubmissionPostgreSQL) ExistsByQuizAndStudent(ctx context.Context, quizID, studentID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.QuizSubmission{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (s *QuizSubmissionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizSubmission, error) {
	var submissions []*models.QuizSubmission
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("taken_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

func (s *QuizSubmissionPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.QuizSubmission, error) {
	var submissions []*models.QuizSubmission
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("taken_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

func (s *QuizSubmissionPostgreSQL) AverageScoreByQuiz(ctx context.Context, quizID uint) (float64, error) {
	cacheKey := fmt.Sprintf("quiz:%d:avg_score", quizID)
	var avg float64

	err := s.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &avg, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbAvg *float64
		err := s.db.WithContext(ctx).
			Model(&models.QuizSubmission{}).
			Where("quiz_id = ?", quizID).
			Select("AVG(score)").
			Scan(&dbAvg).Error
		if err != nil {
			return nil, translateError(err)
		}
		if dbAvg == nil {
			return float64(0), nil
		}
		return *dbAvg, nil
	})
	if err != nil {
		return 0, err
	}
	return avg, nil
}

func (s *QuizSubmissionPostgreSQL) AverageScoreByStudent(ctx context.Context, studentID uint) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).
		Model(&models.QuizSubmission{}).
		Where("student_id = ?", studentID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, translateError(err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
