// Package access decides whether a user may view a stage. The rules
// are purchase (entitlement) plus having passed the previous stage.
package access

import (
	"lms/models"

	"gorm.io/gorm"
)

const (
	ReasonNotPurchased = "No compraste esta etapa (o el curso completo)."
	ReasonPrevious     = "Debés aprobar la etapa anterior para acceder."
)

// HasEntitlement reports whether the user bought this stage, directly
// or through a bundle that includes it.
func HasEntitlement(db *gorm.DB, userID uint, stage *models.Stage) bool {
	var count int64
	db.Model(&models.Entitlement{}).
		Where("user_id = ? AND stage_id = ?", userID, stage.ID).
		Count(&count)
	return count > 0
}

// HasPassedPrevious reports whether the user passed the stage before
// this one. First stages need no prerequisite; a missing predecessor
// counts as satisfied rather than blocking access.
func HasPassedPrevious(db *gorm.DB, userID uint, stage *models.Stage) bool {
	if stage.Order <= 1 {
		return true
	}

	var prev models.Stage
	err := db.Where("course_id = ? AND stage_order = ?", stage.CourseID, stage.Order-1).
		First(&prev).Error
	if err != nil {
		return true
	}

	var count int64
	db.Model(&models.StageProgress{}).
		Where("user_id = ? AND stage_id = ? AND passed = ?", userID, prev.ID, true).
		Count(&count)
	return count > 0
}

// CanViewStage is the final access rule: purchase + approved
// prerequisite. Read-only; repeated calls with unchanged state give
// the same answer.
func CanViewStage(db *gorm.DB, userID uint, stage *models.Stage) (bool, string) {
	if !HasEntitlement(db, userID, stage) {
		return false, ReasonNotPurchased
	}
	if !HasPassedPrevious(db, userID, stage) {
		return false, ReasonPrevious
	}
	return true, ""
}
