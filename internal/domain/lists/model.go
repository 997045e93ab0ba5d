package lists

import (
	"time"

	"family-tasks-go/internal/domain/ownership"
	"family-tasks-go/internal/validation"
	"github.com/google/uuid"
)

const DefaultColor = "#3B82F6"

type List struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Color        string    `gorm:"size:7;not null"`
	IsFamilyList bool      `gorm:"not null;default:false"`
	UserID       *string   `gorm:"type:uuid;index"`
	FamilyID     *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// New builds a list owned by exactly one user or family. Name and color
// are validated; an empty color falls back to DefaultColor.
func New(name, color string, owner ownership.Owner) (*List, error) {
	if owner.IsZero() {
		return nil, ownership.ErrInvalidOwner
	}

	name, err := validation.Required("name", name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = DefaultColor
	}
	color, err = validation.Color(color)
	if err != nil {
		return nil, err
	}

	userID, familyID := owner.Columns()
	return &List{
		ID:           uuid.New().String(),
		Name:         name,
		Color:        color,
		IsFamilyList: owner.IsFamily(),
		UserID:       userID,
		FamilyID:     familyID,
	}, nil
}

// Owner decodes the stored columns. A row whose is_family_list flag
// disagrees with its columns is reported as ErrInvalidOwner.
func (l *List) Owner() (ownership.Owner, error) {
	owner, err := ownership.FromColumns(l.UserID, l.FamilyID)
	if err != nil {
		return ownership.Owner{}, err
	}
	if owner.IsFamily() != l.IsFamilyList {
		return ownership.Owner{}, ownership.ErrInvalidOwner
	}
	return owner, nil
}

type CreateListInput struct {
	Name         string
	Color        *string
	IsFamilyList bool
}

type UpdateListInput struct {
	Name  *string
	Color *string
}
