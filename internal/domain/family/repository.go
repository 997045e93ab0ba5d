package family

import (
	"context"

	"family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/domain/user"
)

// Repository is the membership and role store. Lookups return (nil, nil)
// when the row does not exist. Membership writes are unconditional; the
// service decides whether they are allowed.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetUser(ctx context.Context, id string) (*user.User, error)
	// GetUserForUpdate locks the user row until the transaction ends.
	GetUserForUpdate(ctx context.Context, id string) (*user.User, error)
	SetUserFamily(ctx context.Context, userID string, familyID *string) error
	SetUserAdmin(ctx context.Context, userID string, isAdmin bool) error
	ListMembers(ctx context.Context, familyID string) ([]user.User, error)
	GetAdmin(ctx context.Context, familyID string) (*user.User, error)
	CountAdmins(ctx context.Context, familyID string) (int64, error)

	GetFamily(ctx context.Context, id string) (*Family, error)
	GetFamilyByInviteCode(ctx context.Context, code string) (*Family, error)
	IsInviteCodeTaken(ctx context.Context, code string) (bool, error)
	CreateFamily(ctx context.Context, family *Family) error
	UpdateFamilyName(ctx context.Context, id, name string) error
	// DeleteFamily relies on the store's referential actions: members are
	// detached, family lists and their tasks are deleted.
	DeleteFamily(ctx context.Context, id string) error

	CreateList(ctx context.Context, list *lists.List) error
	ReassignFamilyTasks(ctx context.Context, familyID, fromUserID, toUserID string) error
}
