package tasks

import (
	"context"

	"family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/domain/user"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetList(ctx context.Context, id string) (*lists.List, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	// GetUserForUpdate and GetTaskForUpdate hold a row lock until the
	// surrounding transaction ends.
	GetUserForUpdate(ctx context.Context, id string) (*user.User, error)
	GetTaskForUpdate(ctx context.Context, id string) (*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id string) error
	// ListByList returns the tasks of a list, newest first.
	ListByList(ctx context.Context, listID string) ([]Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]Task, error)
	// ListByFamily returns every task in the family's lists, newest first.
	ListByFamily(ctx context.Context, familyID string) ([]Task, error)
}
