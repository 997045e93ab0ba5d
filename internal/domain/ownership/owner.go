// Package ownership describes who owns a list: a single user or a family.
package ownership

import (
	"errors"
	"strings"
)

type Kind uint8

const (
	KindPersonal Kind = iota + 1
	KindFamily
)

func (k Kind) String() string {
	switch k {
	case KindPersonal:
		return "personal"
	case KindFamily:
		return "family"
	default:
		return "invalid"
	}
}

var ErrInvalidOwner = errors.New("list owner must be exactly one of user or family")

// Owner is either Personal(userID) or Family(familyID). The zero value is invalid.
type Owner struct {
	kind Kind
	id   string
}

func Personal(userID string) (Owner, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Owner{}, ErrInvalidOwner
	}
	return Owner{kind: KindPersonal, id: userID}, nil
}

func Family(familyID string) (Owner, error) {
	familyID = strings.TrimSpace(familyID)
	if familyID == "" {
		return Owner{}, ErrInvalidOwner
	}
	return Owner{kind: KindFamily, id: familyID}, nil
}

// FromColumns rebuilds an Owner from the two nullable storage columns.
// Both set or both unset is rejected.
func FromColumns(userID, familyID *string) (Owner, error) {
	hasUser := userID != nil && *userID != ""
	hasFamily := familyID != nil && *familyID != ""

	switch {
	case hasUser && !hasFamily:
		return Personal(*userID)
	case hasFamily && !hasUser:
		return Family(*familyID)
	default:
		return Owner{}, ErrInvalidOwner
	}
}

func (o Owner) Kind() Kind {
	return o.kind
}

func (o Owner) IsZero() bool {
	return o.kind == 0
}

func (o Owner) IsPersonal() bool {
	return o.kind == KindPersonal
}

func (o Owner) IsFamily() bool {
	return o.kind == KindFamily
}

// UserID returns the owning user, or "" for family-scoped owners.
func (o Owner) UserID() string {
	if o.kind != KindPersonal {
		return ""
	}
	return o.id
}

// FamilyID returns the owning family, or "" for personal owners.
func (o Owner) FamilyID() string {
	if o.kind != KindFamily {
		return ""
	}
	return o.id
}

// Columns returns the values for the user_id and family_id columns.
// Exactly one of them is non-nil for a valid owner.
func (o Owner) Columns() (userID *string, familyID *string) {
	id := o.id
	switch o.kind {
	case KindPersonal:
		return &id, nil
	case KindFamily:
		return nil, &id
	default:
		return nil, nil
	}
}

func (o Owner) String() string {
	if o.IsZero() {
		return "invalid"
	}
	return o.kind.String() + ":" + o.id
}
