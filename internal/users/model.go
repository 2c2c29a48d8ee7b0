package users

import "time"

// User is a read model owned by the external identity service. This core
// never writes it; it only joins username for author display.
type User struct {
	ID        uint64    `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Phone     string    `gorm:"type:text"`
	Address   string    `gorm:"type:text"`
	PhotoURL  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}
