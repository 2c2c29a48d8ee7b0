package experience

import "time"

// Experience is user-submitted narrative text about a finished attempt.
type Experience struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	UserID     uint64    `gorm:"index;not null" json:"user_id"`
	PlantName  string    `gorm:"not null" json:"plant_name"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`
	Status     Outcome   `gorm:"type:text;not null" json:"status"`
	Experience string    `gorm:"type:text;not null" json:"experience"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Entry is an Experience joined with the author's display name.
type Entry struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	PlantName  string    `json:"plant_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     Outcome   `json:"status"`
	Experience string    `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Author     *string   `json:"author"`
}
