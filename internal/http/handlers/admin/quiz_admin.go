package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dollers-electro/internal/http/response"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/service"

	"github.com/gin-gonic/gin"
)

// QuizRequest carries quiz fields for create and update.
type QuizRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// QuizQuestionRequest adds one question to a quiz.
type QuizQuestionRequest struct {
	Prompt        string             `json:"prompt" binding:"required"`
	Options       models.StringArray `json:"options" binding:"required"`
	CorrectOption int                `json:"correct_option"`
	Points        int                `json:"points"`
	SortOrder     int                `json:"sort_order"`
}

// QuizSubmitRequest carries answers keyed by question id.
type QuizSubmitRequest struct {
	Answers map[uint]int `json:"answers" binding:"required"`
}

func respondQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		respondError(c, http.StatusNotFound, "quiz not found", nil)
	case errors.Is(err, service.ErrQuizInactive):
		respondError(c, http.StatusBadRequest, "quiz is not active", nil)
	case errors.Is(err, service.ErrQuizNotEmployee):
		respondError(c, http.StatusForbidden, "account not enrolled in quizzes", nil)
	case errors.Is(err, service.ErrQuizAnswerMissing):
		respondError(c, http.StatusBadRequest, "answer missing for question", nil)
	default:
		respondError(c, http.StatusInternalServerError, "quiz operation failed", err)
	}
}

// ListQuizzes lists all quizzes for the console.
func (h *Handler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.QuizService.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list quizzes", err)
		return
	}
	response.Success(c, quizzes)
}

// GetQuiz returns one quiz with questions. Employees taking the quiz get
// the questions without the correct answers.
func (h *Handler) GetQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var (
		quiz *models.Quiz
		err  error
	)
	if c.Query("mode") == "take" {
		quiz, err = h.QuizService.GetForTaking(id)
	} else {
		quiz, err = h.QuizService.Get(id)
	}
	if err != nil {
		respondQuizError(c, err)
		return
	}

	response.Success(c, quiz)
}

// CreateQuiz adds a quiz.
func (h *Handler) CreateQuiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	quiz := &models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := h.QuizService.Create(quiz); err != nil {
		respondQuizError(c, err)
		return
	}

	response.Created(c, quiz)
}

// UpdateQuiz saves quiz changes.
func (h *Handler) UpdateQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	quiz, err := h.QuizService.Get(id)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := h.QuizService.Update(quiz); err != nil {
		respondQuizError(c, err)
		return
	}

	response.Success(c, quiz)
}

// DeleteQuiz removes a quiz.
func (h *Handler) DeleteQuiz(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.QuizService.Delete(id); err != nil {
		respondQuizError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// AddQuizQuestion appends a question to a quiz.
func (h *Handler) AddQuizQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req QuizQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		respondError(c, http.StatusBadRequest, "correct_option out of range", nil)
		return
	}

	question := &models.QuizQuestion{
		QuizID:        id,
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Points:        req.Points,
		SortOrder:     req.SortOrder,
	}
	if question.Points <= 0 {
		question.Points = 1
	}

	if err := h.QuizService.AddQuestion(question); err != nil {
		respondQuizError(c, err)
		return
	}

	response.Created(c, question)
}

// RemoveQuizQuestion deletes a question.
func (h *Handler) RemoveQuizQuestion(c *gin.Context) {
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return
	}

	if err := h.QuizService.RemoveQuestion(questionID); err != nil {
		respondQuizError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// SubmitQuiz records an employee attempt and scores it.
func (h *Handler) SubmitQuiz(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req QuizSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	attempt, err := h.QuizService.Submit(id, adminID, req.Answers)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	response.Created(c, attempt)
}

// ListMyAttempts returns the authenticated admin's quiz history.
func (h *Handler) ListMyAttempts(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	attempts, err := h.QuizService.Attempts(adminID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list attempts", err)
		return
	}

	response.Success(c, attempts)
}

// QuizLeaderboard ranks employees by accumulated score.
func (h *Handler) QuizLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.QuizService.Leaderboard(limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build leaderboard", err)
		return
	}

	response.Success(c, entries)
}
