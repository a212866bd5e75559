package repository

import (
	"github.com/dollers-electro/internal/models"

	"gorm.io/gorm"
)

// LeaderboardEntry is one row of the quiz leaderboard.
type LeaderboardEntry struct {
	AdminID     uint   `json:"admin_id"`
	DisplayName string `json:"display_name"`
	TotalScore  int    `json:"total_score"`
	Attempts    int    `json:"attempts"`
}

// QuizRepository manages training quizzes, questions and attempts.
type QuizRepository interface {
	GetByID(id uint, withQuestions bool) (*models.Quiz, error)
	ListActive() ([]models.Quiz, error)
	ListAll() ([]models.Quiz, error)
	Create(quiz *models.Quiz) error
	Update(quiz *models.Quiz) error
	Delete(id uint) error
	CreateQuestion(q *models.QuizQuestion) error
	DeleteQuestion(id uint) error
	CreateAttempt(attempt *models.QuizAttempt) error
	ListAttemptsByAdmin(adminID uint) ([]models.QuizAttempt, error)
	CountAttempts(quizID, adminID uint) (int64, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}

// GormQuizRepository is the GORM implementation.
type GormQuizRepository struct {
	db *gorm.DB
}

// NewQuizRepository creates the quiz repository.
func NewQuizRepository(db *gorm.DB) *GormQuizRepository {
	return &GormQuizRepository{db: db}
}

// GetByID fetches one quiz, optionally with its ordered questions.
func (r *GormQuizRepository) GetByID(id uint, withQuestions bool) (*models.Quiz, error) {
	var quiz models.Quiz
	query := r.db
	if withQuestions {
		query = query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
	}
	if err := query.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListActive returns quizzes open to employees.
func (r *GormQuizRepository) ListActive() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

// ListAll returns every quiz for management.
func (r *GormQuizRepository) ListAll() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

// Create inserts a quiz with any attached questions.
func (r *GormQuizRepository) Create(quiz *models.Quiz) error {
	return r.db.Create(quiz).Error
}

// Update saves a quiz.
func (r *GormQuizRepository) Update(quiz *models.Quiz) error {
	return r.db.Save(quiz).Error
}

// Delete soft-deletes a quiz and its questions.
func (r *GormQuizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, id).Error
	})
}

// CreateQuestion inserts one question.
func (r *GormQuizRepository) CreateQuestion(q *models.QuizQuestion) error {
	return r.db.Create(q).Error
}

// DeleteQuestion soft-deletes one question.
func (r *GormQuizRepository) DeleteQuestion(id uint) error {
	return r.db.Delete(&models.QuizQuestion{}, id).Error
}

// CreateAttempt records a completed run.
func (r *GormQuizRepository) CreateAttempt(attempt *models.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// ListAttemptsByAdmin returns an employee's attempts newest first.
func (r *GormQuizRepository) ListAttemptsByAdmin(adminID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.Where("admin_id = ?", adminID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// CountAttempts counts an employee's attempts at one quiz.
func (r *GormQuizRepository) CountAttempts(quizID, adminID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND admin_id = ?", quizID, adminID).
		Count(&count).Error
	return count, err
}

// Leaderboard aggregates total scores across employees.
func (r *GormQuizRepository) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []LeaderboardEntry
	err := r.db.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.admin_id AS admin_id, admins.display_name AS display_name, SUM(quiz_attempts.score) AS total_score, COUNT(*) AS attempts").
		Joins("JOIN admins ON admins.id = quiz_attempts.admin_id AND admins.deleted_at IS NULL").
		Where("quiz_attempts.deleted_at IS NULL").
		Group("quiz_attempts.admin_id, admins.display_name").
		Order("total_score DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
