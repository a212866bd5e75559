package service

import (
	"fmt"
	"time"

	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"
)

// QuizService runs the back-office training quizzes.
type QuizService struct {
	quizRepo  repository.QuizRepository
	adminRepo repository.AdminRepository
}

// NewQuizService creates the quiz service.
func NewQuizService(quizRepo repository.QuizRepository, adminRepo repository.AdminRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo, adminRepo: adminRepo}
}

// ListActive returns quizzes employees can take.
func (s *QuizService) ListActive() ([]models.Quiz, error) {
	return s.quizRepo.ListActive()
}

// ListAll returns every quiz for management.
func (s *QuizService) ListAll() ([]models.Quiz, error) {
	return s.quizRepo.ListAll()
}

// GetForTaking fetches a quiz with its questions. Correct answers stay
// hidden through the question's JSON tags.
func (s *QuizService) GetForTaking(id uint) (*models.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(id, true)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}
	return quiz, nil
}

// Get fetches a quiz with questions for management.
func (s *QuizService) Get(id uint) (*models.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(id, true)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

// Create registers a quiz with its questions.
func (s *QuizService) Create(quiz *models.Quiz) error {
	return s.quizRepo.Create(quiz)
}

// Update saves quiz changes.
func (s *QuizService) Update(quiz *models.Quiz) error {
	if _, err := s.quizRepo.GetByID(quiz.ID, false); err != nil {
		return ErrQuizNotFound
	}
	return s.quizRepo.Update(quiz)
}

// Delete removes a quiz and its questions.
func (s *QuizService) Delete(id uint) error {
	if _, err := s.quizRepo.GetByID(id, false); err != nil {
		return ErrQuizNotFound
	}
	return s.quizRepo.Delete(id)
}

// AddQuestion appends a question to a quiz.
func (s *QuizService) AddQuestion(q *models.QuizQuestion) error {
	if _, err := s.quizRepo.GetByID(q.QuizID, false); err != nil {
		return ErrQuizNotFound
	}
	return s.quizRepo.CreateQuestion(q)
}

// RemoveQuestion drops a question.
func (s *QuizService) RemoveQuestion(id uint) error {
	return s.quizRepo.DeleteQuestion(id)
}

// Submit scores an employee's answers. answers maps question ID to the
// chosen option index; every question must be answered. The attempt is
// stored with the answers snapshot.
func (s *QuizService) Submit(quizID, adminID uint, answers map[uint]int) (*models.QuizAttempt, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, ErrAdminNotFound
	}
	if !admin.IsEmployee {
		return nil, ErrQuizNotEmployee
	}

	quiz, err := s.GetForTaking(quizID)
	if err != nil {
		return nil, err
	}

	score := 0
	maxScore := 0
	snapshot := make(models.JSON, len(quiz.Questions))
	for _, question := range quiz.Questions {
		maxScore += question.Points
		chosen, ok := answers[question.ID]
		if !ok {
			return nil, ErrQuizAnswerMissing
		}
		snapshot[fmt.Sprintf("%d", question.ID)] = chosen
		if chosen == question.CorrectOption {
			score += question.Points
		}
	}

	attempt := &models.QuizAttempt{
		QuizID:      quiz.ID,
		AdminID:     adminID,
		Answers:     snapshot,
		Score:       score,
		MaxScore:    maxScore,
		CompletedAt: time.Now(),
	}
	if err := s.quizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Attempts returns an employee's past attempts.
func (s *QuizService) Attempts(adminID uint) ([]models.QuizAttempt, error) {
	return s.quizRepo.ListAttemptsByAdmin(adminID)
}

// Leaderboard ranks employees by total score.
func (s *QuizService) Leaderboard(limit int) ([]repository.LeaderboardEntry, error) {
	return s.quizRepo.Leaderboard(limit)
}
