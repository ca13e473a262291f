package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz gates the stage it belongs to. MaxAttempts 0 means unlimited.
type Quiz struct {
	gorm.Model
	StageID      uint       `json:"stage_id" gorm:"uniqueIndex;not null"`
	PassingScore int        `json:"passing_score" gorm:"default:80"` // 1-100
	MaxAttempts  int        `json:"max_attempts" gorm:"default:0"`
	Questions    []Question `json:"questions,omitempty"`
}

// Question owns its choices. Exactly one choice should be marked
// correct; that is a data-entry rule, not a storage constraint.
type Question struct {
	gorm.Model
	QuizID  uint     `json:"quiz_id" gorm:"index;not null"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

type Choice struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"-" gorm:"default:false"`
}

// QuizAttempt is an append-only audit log of every submission. It is
// never consulted for access decisions.
type QuizAttempt struct {
	gorm.Model
	UserID  uint           `json:"user_id" gorm:"index;not null"`
	QuizID  uint           `json:"quiz_id" gorm:"index;not null"`
	Score   int            `json:"score"`
	Passed  bool           `json:"passed"`
	Answers datatypes.JSON `json:"answers"` // question id -> selected choice id
}
