package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PurchasePending  = "pending"
	PurchasePaid     = "paid"
	PurchaseFailed   = "failed"
	PurchaseRefunded = "refunded"
)

const (
	ItemTypeStage  = "stage"
	ItemTypeBundle = "bundle"
)

const (
	EntitlementSourceStage  = "stage"
	EntitlementSourceBundle = "bundle"
)

// Bundle sells all (or a subset of) a course's stages at one price.
type Bundle struct {
	gorm.Model
	CourseID uint    `json:"course_id" gorm:"index;not null"`
	Course   *Course `json:"course,omitempty"`
	Title    string  `json:"title"`
	PriceARS float64 `json:"price_ars"`
	Stages   []Stage `json:"stages,omitempty" gorm:"many2many:bundle_stages;"`
}

// Purchase moves through pending -> paid; failed/refunded are set by
// admin action only. ExternalRef correlates gateway notifications
// ("MP:<payment_id>") or carries a transfer receipt path
// ("TRANSFER:<stored_path>").
type Purchase struct {
	gorm.Model
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	User        *User          `json:"user,omitempty"`
	Status      string         `json:"status" gorm:"default:'pending'"`
	ExternalRef string         `json:"external_ref"`
	TotalARS    float64        `json:"total_ars" gorm:"default:0"`
	Items       []PurchaseItem `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

// PurchaseItem references a Stage XOR a Bundle. PriceARS is the price
// at purchase time; later catalog edits never change it.
type PurchaseItem struct {
	gorm.Model
	PurchaseID uint    `json:"purchase_id" gorm:"index;not null"`
	Type       string  `json:"type"`
	StageID    *uint   `json:"stage_id"`
	Stage      *Stage  `json:"stage,omitempty"`
	BundleID   *uint   `json:"bundle_id"`
	Bundle     *Bundle `json:"bundle,omitempty"`
	PriceARS   float64 `json:"price_ars"`
}

// Entitlement is the durable proof a user may access a stage. Written
// only by payment fulfillment.
type Entitlement struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_user_stage_ent;not null"`
	StageID uint   `json:"stage_id" gorm:"uniqueIndex:idx_user_stage_ent;not null"`
	Source  string `json:"source" gorm:"default:'stage'"`
}

// Enrollment marks that a user has any access into a course. Created
// alongside the first entitlement for that course.
type Enrollment struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_course_enr;not null"`
	CourseID  uint      `json:"course_id" gorm:"uniqueIndex:idx_user_course_enr;not null"`
	StartedAt time.Time `json:"started_at"`
}

// StageProgress records best score and pass state per user and stage.
// Score never decreases and Passed never reverts.
type StageProgress struct {
	gorm.Model
	UserID   uint       `json:"user_id" gorm:"uniqueIndex:idx_user_stage_prog;not null"`
	StageID  uint       `json:"stage_id" gorm:"uniqueIndex:idx_user_stage_prog;not null"`
	Score    int        `json:"score" gorm:"default:0"`
	Passed   bool       `json:"passed" gorm:"default:false"`
	PassedAt *time.Time `json:"passed_at"`
}
