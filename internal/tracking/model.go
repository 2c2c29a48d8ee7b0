package tracking

import (
	"time"

	"gorm.io/datatypes"
)

// Instance is one user's attempt to grow one catalog plant. Rows are never
// deleted; a terminal status is the closure mechanism.
type Instance struct {
	ID      uint64 `gorm:"primaryKey" json:"id"`
	UserID  uint64 `gorm:"index;not null" json:"user_id"`
	PlantID uint64 `gorm:"index;not null" json:"plant_id"`
	Name    string `gorm:"not null" json:"name"`

	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    Status     `gorm:"type:text;not null;default:'tracking'" json:"status"`
	Progress  float64    `gorm:"not null;default:0" json:"progress"`
	Notes     string     `gorm:"type:text;not null;default:''" json:"notes"`

	// Checklist items addressed during the attempt, orthogonal to Progress.
	CompletedTargets datatypes.JSON `json:"completed_targets"`
	TargetProblems   datatypes.JSON `json:"target_problems"`
}

func (Instance) TableName() string { return "tracking_instances" }

// Detail is an Instance joined with its catalog plant for display.
type Detail struct {
	ID      uint64 `json:"id"`
	UserID  uint64 `json:"user_id"`
	PlantID uint64 `json:"plant_id"`
	Name    string `json:"name"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    Status     `json:"status"`
	Progress  float64    `json:"progress"`
	Notes     string     `json:"notes"`

	CompletedTargets datatypes.JSON `json:"completed_targets"`
	TargetProblems   datatypes.JSON `json:"target_problems"`

	PlantName string `json:"plant_name"`
	Duration  string `json:"duration"`
	ImagePath string `json:"image_path"`
	Guide     string `json:"guide"`
}
