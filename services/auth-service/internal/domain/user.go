package domain

import (
	"time"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password;not null"`
	Role         auth.Role `gorm:"size:20;not null"`
	// Set for MANAGER and RECEPTIONIST only.
	HotelID     *int64 `gorm:"index"`
	FullName    string `gorm:"size:100"`
	PhoneNumber string `gorm:"size:15"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) Principal() (auth.Principal, error) {
	return auth.NewPrincipal(u.ID, u.Username, u.Email, u.Role, u.HotelID)
}
