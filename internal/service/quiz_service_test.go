package service

import (
	"errors"
	"testing"

	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/repository"

	"gorm.io/gorm"
)

func newTestQuizService(t *testing.T, db *gorm.DB) *QuizService {
	t.Helper()
	return NewQuizService(repository.NewQuizRepository(db), repository.NewAdminRepository(db))
}

func seedEmployee(t *testing.T, db *gorm.DB, username string, employee bool) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Username:     username,
		PasswordHash: "x",
		IsEmployee:   employee,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func seedQuiz(t *testing.T, db *gorm.DB, title string, active bool) (*models.Quiz, []models.QuizQuestion) {
	t.Helper()
	quiz := &models.Quiz{Title: title, IsActive: active}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	questions := []models.QuizQuestion{
		{QuizID: quiz.ID, Prompt: "Q1", Options: models.StringArray{"a", "b", "c"}, CorrectOption: 1, Points: 2},
		{QuizID: quiz.ID, Prompt: "Q2", Options: models.StringArray{"yes", "no"}, CorrectOption: 0, Points: 3},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return quiz, questions
}

func TestSubmitScoresAnswersAndStoresSnapshot(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestQuizService(t, db)
	employee := seedEmployee(t, db, "clerk", true)
	quiz, questions := seedQuiz(t, db, "Basics", true)

	attempt, err := svc.Submit(quiz.ID, employee.ID, map[uint]int{
		questions[0].ID: 1, // correct, 2 points
		questions[1].ID: 1, // wrong
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if attempt.Score != 2 || attempt.MaxScore != 5 {
		t.Errorf("score = %d/%d, want 2/5", attempt.Score, attempt.MaxScore)
	}
	if attempt.CompletedAt.IsZero() {
		t.Error("completed_at not stamped")
	}
	if len(attempt.Answers) != 2 {
		t.Errorf("answers snapshot = %v, want both questions recorded", attempt.Answers)
	}

	attempts, err := svc.Attempts(employee.ID)
	if err != nil {
		t.Fatalf("Attempts() error = %v", err)
	}
	if len(attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(attempts))
	}
}

func TestSubmitGuards(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestQuizService(t, db)
	employee := seedEmployee(t, db, "clerk", true)
	manager := seedEmployee(t, db, "manager", false)
	quiz, questions := seedQuiz(t, db, "Basics", true)
	inactive, _ := seedQuiz(t, db, "Retired", false)

	if _, err := svc.Submit(quiz.ID, manager.ID, nil); !errors.Is(err, ErrQuizNotEmployee) {
		t.Errorf("non-employee error = %v, want ErrQuizNotEmployee", err)
	}
	if _, err := svc.Submit(quiz.ID, 9999, nil); !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("missing admin error = %v, want ErrAdminNotFound", err)
	}
	if _, err := svc.Submit(inactive.ID, employee.ID, nil); !errors.Is(err, ErrQuizInactive) {
		t.Errorf("inactive quiz error = %v, want ErrQuizInactive", err)
	}
	if _, err := svc.Submit(9999, employee.ID, nil); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("missing quiz error = %v, want ErrQuizNotFound", err)
	}

	// Partial answers are rejected outright.
	if _, err := svc.Submit(quiz.ID, employee.ID, map[uint]int{questions[0].ID: 1}); !errors.Is(err, ErrQuizAnswerMissing) {
		t.Errorf("partial answers error = %v, want ErrQuizAnswerMissing", err)
	}
	var count int64
	if err := db.Model(&models.QuizAttempt{}).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 0 {
		t.Errorf("attempts stored despite rejections = %d, want 0", count)
	}
}

func TestLeaderboardRanksByTotalScore(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestQuizService(t, db)
	top := seedEmployee(t, db, "top", true)
	runner := seedEmployee(t, db, "runner", true)
	quiz, questions := seedQuiz(t, db, "Basics", true)

	// top answers everything right twice, runner once with one miss.
	full := map[uint]int{questions[0].ID: 1, questions[1].ID: 0}
	partial := map[uint]int{questions[0].ID: 1, questions[1].ID: 1}
	for _, sub := range []struct {
		adminID uint
		answers map[uint]int
	}{
		{top.ID, full},
		{top.ID, full},
		{runner.ID, partial},
	} {
		if _, err := svc.Submit(quiz.ID, sub.adminID, sub.answers); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	entries, err := svc.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].AdminID != top.ID || entries[0].TotalScore != 10 {
		t.Errorf("first = %+v, want admin %d with 10 points", entries[0], top.ID)
	}
	if entries[1].AdminID != runner.ID || entries[1].TotalScore != 2 {
		t.Errorf("second = %+v, want admin %d with 2 points", entries[1], runner.ID)
	}
}

func TestQuizCrudAndQuestionManagement(t *testing.T) {
	db := newServiceTestDB(t)
	svc := newTestQuizService(t, db)

	quiz := &models.Quiz{Title: "New hire onboarding", IsActive: true}
	if err := svc.Create(quiz); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	question := &models.QuizQuestion{
		QuizID:        quiz.ID,
		Prompt:        "Pick one",
		Options:       models.StringArray{"a", "b"},
		CorrectOption: 0,
		Points:        1,
	}
	if err := svc.AddQuestion(question); err != nil {
		t.Fatalf("AddQuestion() error = %v", err)
	}
	if err := svc.AddQuestion(&models.QuizQuestion{QuizID: 9999, Prompt: "orphan", Options: models.StringArray{"a"}}); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("orphan question error = %v, want ErrQuizNotFound", err)
	}

	loaded, err := svc.Get(quiz.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(loaded.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(loaded.Questions))
	}

	if err := svc.RemoveQuestion(question.ID); err != nil {
		t.Fatalf("RemoveQuestion() error = %v", err)
	}
	if err := svc.Delete(quiz.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("deleted quiz error = %v, want ErrQuizNotFound", err)
	}
	if err := svc.Delete(quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("double delete error = %v, want ErrQuizNotFound", err)
	}
}
