package family

import "time"

type Family struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:255;not null"`
	InviteCode string    `gorm:"size:8;not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// DefaultLists configures the lists seeded on family creation and join.
type DefaultLists struct {
	FamilyListName   string
	PersonalListName string
	Color            string
}
