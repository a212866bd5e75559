package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz is a back-office training quiz for employees.
type Quiz struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// TableName sets the table name.
func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion holds one multiple-choice question.
type QuizQuestion struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuizID        uint           `gorm:"index;not null" json:"quiz_id"`
	Prompt        string         `gorm:"type:text;not null" json:"prompt"`
	Options       StringArray    `gorm:"type:json;not null" json:"options"`
	CorrectOption int            `gorm:"not null" json:"-"` // index into Options, hidden from players
	Points        int            `gorm:"not null;default:1" json:"points"`
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt stores one employee run with the submitted answers snapshot.
type QuizAttempt struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	QuizID      uint           `gorm:"index;not null" json:"quiz_id"`
	AdminID     uint           `gorm:"index;not null" json:"admin_id"`
	Answers     JSON           `gorm:"type:json" json:"answers"` // question id -> chosen option index
	Score       int            `gorm:"not null;default:0" json:"score"`
	MaxScore    int            `gorm:"not null;default:0" json:"max_score"`
	CompletedAt time.Time      `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
