package history

import (
	"time"

	"wefarm/internal/tracking"
)

// Record is the durable, 1:1 derivation of a tracking instance. plant_name
// and the dates are denormalized snapshots, not live joins.
type Record struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	UserPlantID uint64          `gorm:"uniqueIndex;not null" json:"user_plant_id"`
	UserID      uint64          `gorm:"index;not null" json:"user_id"`
	PlantName   string          `gorm:"not null" json:"plant_name"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Status      tracking.Status `gorm:"type:text;not null" json:"status"`
	Notes       string          `gorm:"type:text;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Record) TableName() string { return "history_records" }

// Entry is the denormalized read model: a record joined with the live
// instance's progress, catalog metadata and the author's display name. The
// joined columns are nullable because the joins are best-effort lookups, not
// integrity constraints.
type Entry struct {
	ID          uint64          `json:"id"`
	UserPlantID uint64          `json:"user_plant_id"`
	UserID      uint64          `json:"user_id"`
	PlantName   string          `json:"plant_name"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Status      tracking.Status `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`

	Progress  *float64 `json:"progress"`
	Duration  *string  `json:"duration"`
	ImagePath *string  `json:"image_path"`
	Author    *string  `json:"author"`
}
