// Package quiz grades submitted answer sets and records the outcome.
package quiz

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"lms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAttemptsExhausted is returned when the quiz caps attempts and the
// user already used them all. Rejected submissions are not logged.
var ErrAttemptsExhausted = errors.New("maximum quiz attempts reached")

// Result of grading one submission.
type Result struct {
	Total   int  `json:"total"`
	Correct int  `json:"correct"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// Submit grades answers (question id -> selected choice id) against
// the quiz, appends a QuizAttempt and upserts StageProgress, all in
// one transaction. The progress score only ever goes up, and once a
// stage is passed it stays passed.
func Submit(db *gorm.DB, userID uint, stage *models.Stage, q *models.Quiz, answers map[uint]uint) (*Result, error) {
	if q.MaxAttempts > 0 {
		var used int64
		if err := db.Model(&models.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, q.ID).
			Count(&used).Error; err != nil {
			return nil, err
		}
		if used >= int64(q.MaxAttempts) {
			return nil, ErrAttemptsExhausted
		}
	}

	var questions []models.Question
	if err := db.Preload("Choices").Where("quiz_id = ?", q.ID).Find(&questions).Error; err != nil {
		return nil, err
	}

	total := len(questions)
	correct := 0
	for _, question := range questions {
		selected, ok := answers[question.ID]
		if !ok {
			continue
		}
		for _, ch := range question.Choices {
			if ch.ID == selected && ch.IsCorrect {
				correct++
				break
			}
		}
	}

	// Guard against a quiz with no questions.
	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	score := int(math.Round(float64(correct) / float64(divisor) * 100))
	passed := score >= q.PassingScore

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		attempt := models.QuizAttempt{
			UserID:  userID,
			QuizID:  q.ID,
			Score:   score,
			Passed:  passed,
			Answers: datatypes.JSON(answersJSON),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		var sp models.StageProgress
		err := tx.Where("user_id = ? AND stage_id = ?", userID, stage.ID).First(&sp).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			sp = models.StageProgress{UserID: userID, StageID: stage.ID}
		}

		if score > sp.Score {
			sp.Score = score
		}
		if passed && !sp.Passed {
			sp.Passed = true
			now := time.Now()
			sp.PassedAt = &now
		}
		return tx.Save(&sp).Error
	})
	if err != nil {
		return nil, err
	}

	return &Result{Total: total, Correct: correct, Score: score, Passed: passed}, nil
}
