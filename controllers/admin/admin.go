package adminController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/payments"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetPurchases lists purchases with optional filters: user, status,
// course and a free-text search over buyer name/email.
func GetPurchases(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Purchase{}).
		Preload("User").
		Preload("Items.Stage.Course").
		Preload("Items.Bundle.Course").
		Order("purchases.created_at desc")

	if userID := c.QueryInt("user"); userID > 0 {
		query = query.Where("purchases.user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("purchases.status = ?", status)
	}
	if courseID := c.QueryInt("course"); courseID > 0 {
		query = query.
			Joins("JOIN purchase_items pi ON pi.purchase_id = purchases.id").
			Joins("LEFT JOIN stages st ON st.id = pi.stage_id").
			Joins("LEFT JOIN bundles b ON b.id = pi.bundle_id").
			Where("st.course_id = ? OR b.course_id = ?", courseID, courseID).
			Distinct("purchases.*")
	}
	if q := c.Query("q"); q != "" {
		query = query.
			Joins("JOIN users u ON u.id = purchases.user_id").
			Where("u.name LIKE ? OR u.email LIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var purchases []models.Purchase
	if err := query.Limit(50).Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchases!", nil)
	}

	views := make([]models.PurchaseView, len(purchases))
	for i, p := range purchases {
		views[i] = models.NewPurchaseView(p, utils.GetFileURL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchases fetched successfully!", fiber.Map{
		"purchases": views,
	})
}

// UpdatePurchaseStatus changes a purchase's status. Setting paid on an
// unpaid purchase runs the full fulfillment without overwriting the
// stored external reference (a transfer receipt path survives).
func UpdatePurchaseStatus(c *fiber.Ctx) error {
	purchaseID, _ := c.Locals("purchaseID").(int)
	newStatus, ok := c.Locals("newStatus").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var purchase models.Purchase
	if err := db.First(&purchase, purchaseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Purchase not found!", nil)
	}

	if newStatus == models.PurchasePaid && purchase.Status != models.PurchasePaid {
		if err := payments.MarkPaidAndGrant(db, &purchase, ""); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fulfill purchase!", nil)
		}
	} else {
		// Other transitions only update the status; granted access is
		// never revoked, refunds included.
		if err := db.Model(&purchase).Update("status", newStatus).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update purchase!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase updated!", fiber.Map{
		"purchase_id": purchase.ID,
		"status":      newStatus,
	})
}

// DeletePurchase removes a purchase and its items.
func DeletePurchase(c *fiber.Ctx) error {
	purchaseID, _ := c.Locals("purchaseID").(int)

	db := database.Database.Db

	var purchase models.Purchase
	if err := db.First(&purchase, purchaseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Purchase not found!", nil)
	}

	if err := db.Select("Items").Delete(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete purchase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase deleted!", fiber.Map{
		"purchase_id": purchase.ID,
	})
}

// GetUserDetail returns one user's purchases and stage progress.
func GetUserDetail(c *fiber.Ctx) error {
	targetID, ok := c.Locals("targetUserID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var purchases []models.Purchase
	db.Preload("Items.Stage").Preload("Items.Bundle").
		Where("user_id = ?", user.ID).Order("created_at desc").Find(&purchases)
	views := make([]models.PurchaseView, len(purchases))
	for i, p := range purchases {
		views[i] = models.NewPurchaseView(p, utils.GetFileURL)
	}

	var progresses []models.StageProgress
	db.Where("user_id = ?", user.ID).Order("updated_at desc").Find(&progresses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"purchases":  views,
		"progresses": progresses,
	})
}

// GetSummary returns panel-level counts plus users who completed
// every stage of a course.
func GetSummary(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalCourses, totalStages, totalLessons int64
	db.Model(&models.StageProgress{}).Distinct("user_id").Count(&totalUsers)
	db.Model(&models.Course{}).Count(&totalCourses)
	db.Model(&models.Stage{}).Count(&totalStages)
	db.Model(&models.Lesson{}).Count(&totalLessons)

	type completion struct {
		UserID   uint   `json:"user_id"`
		UserName string `json:"user_name"`
		CourseID uint   `json:"course_id"`
		Course   string `json:"course"`
	}
	var completed []completion

	var courses []models.Course
	db.Find(&courses)
	for _, course := range courses {
		var stageCount int64
		db.Model(&models.Stage{}).Where("course_id = ?", course.ID).Count(&stageCount)
		if stageCount == 0 {
			continue
		}

		type row struct {
			UserID uint
			Cnt    int64
		}
		var rows []row
		db.Model(&models.StageProgress{}).
			Select("stage_progresses.user_id as user_id, count(distinct stage_progresses.stage_id) as cnt").
			Joins("JOIN stages ON stages.id = stage_progresses.stage_id").
			Where("stage_progresses.passed = ? AND stages.course_id = ?", true, course.ID).
			Group("stage_progresses.user_id").
			Having("count(distinct stage_progresses.stage_id) = ?", stageCount).
			Scan(&rows)

		for _, r := range rows {
			var u models.User
			if err := db.First(&u, r.UserID).Error; err != nil {
				continue
			}
			completed = append(completed, completion{
				UserID: u.ID, UserName: u.Name,
				CourseID: course.ID, Course: course.Title,
			})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Summary fetched successfully!", fiber.Map{
		"summary": fiber.Map{
			"users":   totalUsers,
			"courses": totalCourses,
			"stages":  totalStages,
			"lessons": totalLessons,
		},
		"completed": completed,
	})
}
