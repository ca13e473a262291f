package quizController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/access"
	"lms/services/quiz"

	"github.com/gofiber/fiber/v2"
)

func findStageAndQuiz(c *fiber.Ctx) (*models.Stage, *models.Quiz, error) {
	db := database.Database.Db

	var stage models.Stage
	err := db.Joins("JOIN courses ON courses.id = stages.course_id").
		Where("courses.slug = ? AND stages.slug = ?", c.Params("courseSlug"), c.Params("stageSlug")).
		First(&stage).Error
	if err != nil {
		return nil, nil, errors.New("stage not found")
	}

	var q models.Quiz
	if err := db.Where("stage_id = ?", stage.ID).First(&q).Error; err != nil {
		return nil, nil, errors.New("quiz not found")
	}

	return &stage, &q, nil
}

// GetQuiz returns the quiz questions and choices for a stage, without
// the correct-answer flags.
func GetQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stage, q, err := findStageAndQuiz(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	db := database.Database.Db
	allowed, reason := access.CanViewStage(db, userID, stage)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, reason, nil)
	}

	var questions []models.Question
	db.Preload("Choices").Where("quiz_id = ?", q.ID).Find(&questions)

	var attempts int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ? AND quiz_id = ?", userID, q.ID).Count(&attempts)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz": fiber.Map{
			"id":            q.ID,
			"passing_score": q.PassingScore,
			"max_attempts":  q.MaxAttempts,
		},
		"questions":     questions,
		"attempts_used": attempts,
	})
}

// SubmitQuiz grades a submitted answer set and records the attempt
// and stage progress.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	answers, ok := c.Locals("validatedAnswers").(map[uint]uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	stage, q, err := findStageAndQuiz(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	db := database.Database.Db
	allowed, reason := access.CanViewStage(db, userID, stage)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, reason, nil)
	}

	result, err := quiz.Submit(db, userID, stage, q, answers)
	if err != nil {
		if errors.Is(err, quiz.ErrAttemptsExhausted) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You used all the attempts for this quiz!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"score":         result.Score,
		"correct":       result.Correct,
		"total":         result.Total,
		"passed":        result.Passed,
		"passing_score": q.PassingScore,
	})
}
