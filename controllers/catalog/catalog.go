package catalogController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/access"

	"github.com/gofiber/fiber/v2"
)

// GetCatalog lists active courses, optionally filtered by kind.
func GetCatalog(c *fiber.Ctx) error {
	kind := c.Query("type")

	db := database.Database.Db
	query := db.Preload("Stages").Where("is_active = ?", true)
	if kind == models.CourseKindCourse || kind == models.CourseKindTraining {
		query = query.Where("kind = ?", kind)
	}

	var courses []models.Course
	if err := query.Order("id").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch catalog!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Catalog fetched successfully!", fiber.Map{
		"courses":      courses,
		"current_type": kind,
	})
}

// GetCourseDetail returns a course with per-stage entitlement and pass
// flags for the requesting user, plus ownership/completion rollups.
func GetCourseDetail(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	slug := c.Params("slug")

	db := database.Database.Db

	var course models.Course
	if err := db.Where("slug = ?", slug).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var stages []models.Stage
	if err := db.Preload("Lessons").Preload("Quiz").
		Where("course_id = ?", course.ID).Order("stage_order").Find(&stages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stages!", nil)
	}

	stageIDs := make([]uint, len(stages))
	for i, s := range stages {
		stageIDs[i] = s.ID
	}

	entitledIDs := map[uint]bool{}
	passedIDs := map[uint]bool{}
	if userID != 0 && len(stageIDs) > 0 {
		var entitlements []models.Entitlement
		db.Where("user_id = ? AND stage_id IN ?", userID, stageIDs).Find(&entitlements)
		for _, e := range entitlements {
			entitledIDs[e.StageID] = true
		}

		var progresses []models.StageProgress
		db.Where("user_id = ? AND stage_id IN ? AND passed = ?", userID, stageIDs, true).Find(&progresses)
		for _, p := range progresses {
			passedIDs[p.StageID] = true
		}
	}

	// Owned when every stage has an entitlement; completed when every
	// stage is passed.
	courseOwned := len(stages) > 0
	courseCompleted := len(stages) > 0
	stagesTotalARS := 0.0
	type stageInfo struct {
		models.Stage
		Entitled bool `json:"entitled"`
		Passed   bool `json:"passed"`
	}
	stagesInfo := make([]stageInfo, len(stages))
	for i, s := range stages {
		stagesTotalARS += s.PriceARS
		entitled := entitledIDs[s.ID]
		passed := passedIDs[s.ID]
		if !entitled {
			courseOwned = false
		}
		if !passed {
			courseCompleted = false
		}
		stagesInfo[i] = stageInfo{Stage: s, Entitled: entitled, Passed: passed}
	}

	var bundle *models.Bundle
	var bundles []models.Bundle
	db.Where("course_id = ?", course.ID).Limit(1).Find(&bundles)
	if len(bundles) > 0 {
		bundle = &bundles[0]
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":           course,
		"stages":           stagesInfo,
		"bundle":           bundle,
		"course_owned":     courseOwned,
		"course_completed": courseCompleted,
		"stages_total_ars": stagesTotalARS,
	})
}

// GetStageDetail returns a stage with its lessons, gated by the access
// rules. A blocked stage answers 403 with the reason.
func GetStageDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseSlug := c.Params("courseSlug")
	stageSlug := c.Params("stageSlug")

	db := database.Database.Db

	var stage models.Stage
	err := db.Joins("JOIN courses ON courses.id = stages.course_id").
		Where("courses.slug = ? AND stages.slug = ?", courseSlug, stageSlug).
		First(&stage).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Stage not found!", nil)
	}

	allowed, reason := access.CanViewStage(db, userID, &stage)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, reason, fiber.Map{
			"blocked_reason": reason,
		})
	}

	var lessons []models.Lesson
	db.Where("stage_id = ?", stage.ID).Order("lesson_order").Find(&lessons)

	var passedCount int64
	db.Model(&models.StageProgress{}).
		Where("user_id = ? AND stage_id = ? AND passed = ?", userID, stage.ID, true).
		Count(&passedCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stage fetched successfully!", fiber.Map{
		"stage":     stage,
		"lessons":   lessons,
		"is_passed": passedCount > 0,
	})
}
