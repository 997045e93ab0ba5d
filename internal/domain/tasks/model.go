package tasks

import "time"

const MaxNotesLength = 2000

type Task struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Notes     *string   `gorm:"type:text"`
	Completed bool      `gorm:"not null;default:false"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	ListID    string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type CreateTaskInput struct {
	ListID     string
	Title      string
	Notes      *string
	AssigneeID *string
}

type UpdateTaskInput struct {
	Title      *string
	Notes      *string
	AssigneeID *string
}
