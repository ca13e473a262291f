package models

import "gorm.io/gorm"

const (
	CourseKindCourse   = "course"
	CourseKindTraining = "training"
)

// Course is the top of the content hierarchy. Kind separates regular
// courses (stage-gated) from trainings (flat content, optional quiz).
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description string  `json:"description"`
	Kind        string  `json:"kind" gorm:"default:'course'"`
	PriceARS    float64 `json:"price_ars" gorm:"default:0"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
	Stages      []Stage `json:"stages,omitempty"`
}

// Stage is the purchasable unit of a course. Order is 1-based and
// defines the prerequisite chain.
type Stage struct {
	gorm.Model
	CourseID uint     `json:"course_id" gorm:"uniqueIndex:idx_course_slug;not null"`
	Course   *Course  `json:"course,omitempty"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug" gorm:"uniqueIndex:idx_course_slug;not null"`
	Order    int      `json:"order" gorm:"column:stage_order;default:1"`
	PriceARS float64  `json:"price_ars"`
	PDFURL   string   `json:"pdf_url"`
	Lessons  []Lesson `json:"lessons,omitempty"`
	Quiz     *Quiz    `json:"quiz,omitempty"`
}

type Lesson struct {
	gorm.Model
	StageID    uint   `json:"stage_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Order      int    `json:"order" gorm:"column:lesson_order;default:1"`
	YouTubeURL string `json:"youtube_url"`
	PDFURL     string `json:"pdf_url"`
}
