package lists

import (
	"context"

	"family-tasks-go/internal/domain/user"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetList(ctx context.Context, id string) (*List, error)
	ListByUser(ctx context.Context, userID string) ([]List, error)
	ListByFamily(ctx context.Context, familyID string) ([]List, error)
	CreateList(ctx context.Context, list *List) error
	UpdateList(ctx context.Context, list *List) error
	DeleteList(ctx context.Context, id string) error
	DeleteCompletedTasks(ctx context.Context, listID string) (int64, error)
}
