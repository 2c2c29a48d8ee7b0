package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Plant is static catalog metadata. Read-only from this service; content
// management lives elsewhere.
type Plant struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Duration  string `gorm:"not null" json:"duration"`
	ImagePath string `gorm:"type:text" json:"image_path"`
	Guide     string `gorm:"type:text" json:"guide"`

	Targets             datatypes.JSON `json:"targets"`
	DailyTasks          datatypes.JSON `json:"daily_tasks"`
	RecommendedProducts datatypes.JSON `json:"recommended_products"`
	TutorialLinks       datatypes.JSON `json:"tutorial_links"`
	ProblemLinks        datatypes.JSON `json:"problem_links"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
