package profileController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

type stageInfo struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Order    int    `json:"order"`
	Entitled bool   `json:"entitled"`
	Passed   bool   `json:"passed"`
}

type courseSummary struct {
	Course        models.Course `json:"course"`
	Kind          string        `json:"kind"`
	TotalStages   int           `json:"total_stages"`
	PassedStages  int           `json:"passed_stages"`
	Status        string        `json:"status"` // nuevo, en_progreso, aprobado
	NextStageSlug string        `json:"next_stage_slug,omitempty"`
	NextToBuyID   uint          `json:"next_stage_to_buy_id,omitempty"`
	Stages        []stageInfo   `json:"stages"`
}

// GetProfile returns the user's courses with per-stage state, overall
// stats, and their purchases as display projections.
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var prof models.Profile
	db.Where("user_id = ?", userID).First(&prof)

	// Courses reached through entitled stages.
	var entitlements []models.Entitlement
	db.Where("user_id = ?", userID).Find(&entitlements)
	entitledIDs := map[uint]bool{}
	stageIDs := make([]uint, 0, len(entitlements))
	for _, e := range entitlements {
		entitledIDs[e.StageID] = true
		stageIDs = append(stageIDs, e.StageID)
	}

	var courses []models.Course
	if len(stageIDs) > 0 {
		db.Distinct("courses.*").
			Joins("JOIN stages ON stages.course_id = courses.id").
			Where("stages.id IN ?", stageIDs).
			Order("courses.title").
			Find(&courses)
	}

	var failedQuizzes int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ? AND passed = ?", userID, false).Count(&failedQuizzes)

	coursesData := make([]courseSummary, 0, len(courses))
	finished := 0
	for _, course := range courses {
		var stages []models.Stage
		db.Where("course_id = ?", course.ID).Order("stage_order").Find(&stages)

		ids := make([]uint, len(stages))
		for i, s := range stages {
			ids[i] = s.ID
		}
		passedIDs := map[uint]bool{}
		if len(ids) > 0 {
			var progresses []models.StageProgress
			db.Where("user_id = ? AND stage_id IN ? AND passed = ?", userID, ids, true).Find(&progresses)
			for _, p := range progresses {
				passedIDs[p.StageID] = true
			}
		}

		summary := courseSummary{Course: course, Kind: course.Kind, TotalStages: len(stages)}
		var nextToStudy *models.Stage
		for i := range stages {
			s := stages[i]
			entitled := entitledIDs[s.ID]
			passed := passedIDs[s.ID]
			if passed {
				summary.PassedStages++
			}
			if !passed && entitled && nextToStudy == nil {
				nextToStudy = &stages[i]
			}
			if !entitled && summary.NextToBuyID == 0 {
				summary.NextToBuyID = s.ID
			}
			summary.Stages = append(summary.Stages, stageInfo{
				ID: s.ID, Title: s.Title, Slug: s.Slug, Order: s.Order,
				Entitled: entitled, Passed: passed,
			})
		}

		switch {
		case summary.TotalStages > 0 && summary.PassedStages == summary.TotalStages:
			summary.Status = "aprobado"
			finished++
		case summary.PassedStages > 0:
			summary.Status = "en_progreso"
		default:
			summary.Status = "nuevo"
		}

		if nextToStudy != nil && course.Kind != models.CourseKindTraining {
			summary.NextStageSlug = nextToStudy.Slug
		}

		coursesData = append(coursesData, summary)
	}

	// Purchases as read-only views.
	var purchases []models.Purchase
	db.Preload("Items.Stage").Preload("Items.Bundle").
		Where("user_id = ?", userID).Order("created_at desc").Find(&purchases)
	purchaseViews := make([]models.PurchaseView, len(purchases))
	for i, p := range purchases {
		purchaseViews[i] = models.NewPurchaseView(p, utils.GetFileURL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"profile": prof,
		"courses": coursesData,
		"stats": fiber.Map{
			"inscriptos":   len(coursesData),
			"en_progreso":  len(coursesData) - finished,
			"finalizados":  finished,
			"desaprobados": failedQuizzes,
		},
		"purchases": purchaseViews,
	})
}

// UpdateProfile saves user and profile fields.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name       string `json:"name"`
		Email      string `json:"email" validate:"omitempty,email"`
		DNI        string `json:"dni"`
		Phone      string `json:"phone"`
		BirthDate  string `json:"birth_date"` // YYYY-MM-DD
		Address    string `json:"address"`
		PostalCode string `json:"postal_code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Email != "" {
		user.Email = reqData.Email
	}
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	var prof models.Profile
	if err := db.Where("user_id = ?", userID).First(&prof).Error; err != nil {
		prof = models.Profile{UserID: userID}
	}
	prof.DNI = reqData.DNI
	prof.Phone = reqData.Phone
	prof.Address = reqData.Address
	prof.PostalCode = reqData.PostalCode
	if reqData.BirthDate != "" {
		if bd, err := time.Parse("2006-01-02", reqData.BirthDate); err == nil {
			prof.BirthDate = &bd
		}
	} else {
		prof.BirthDate = nil
	}
	if err := db.Save(&prof).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated!", prof)
}
