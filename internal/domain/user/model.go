package user

import (
	"time"

	"family-tasks-go/internal/domain/access"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	FullName     *string   `gorm:"size:255"`
	PasswordHash string    `gorm:"column:hashed_password;not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	FamilyID     *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (u *User) InFamily() bool {
	return u.FamilyID != nil && *u.FamilyID != ""
}

// Principal is the view of the user the authorization engine works with.
func (u *User) Principal() access.Principal {
	p := access.Principal{UserID: u.ID, IsAdmin: u.IsAdmin}
	if u.InFamily() {
		p.FamilyID = *u.FamilyID
	}
	return p
}

type SignupInput struct {
	Email    string
	Password string
	FullName *string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *User
}
