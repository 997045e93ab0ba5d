package tasks

import (
	"context"
	"fmt"

	"family-tasks-go/internal/domain/access"
	"family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/domain/ownership"
	"family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/validation"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTask adds a task to a list. Without an explicit assignee the task
// goes to the acting user.
func (s *Service) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*Task, error) {
	title, err := validation.Required("title", input.Title, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	notes, err := validation.Optional("notes", input.Notes, MaxNotesLength)
	if err != nil {
		return nil, err
	}

	var result *Task
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := loadUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		list, owner, err := loadList(ctx, tx, input.ListID)
		if err != nil {
			return err
		}

		// The assignee row stays locked until commit so a concurrent leave
		// or removal cannot strand the task outside the family.
		assigneeID := actor.ID
		if input.AssigneeID != nil && *input.AssigneeID != "" {
			assigneeID = *input.AssigneeID
		}
		assignee, err := lockUser(ctx, tx, assigneeID)
		if err != nil {
			return err
		}
		if assignee.ID == actor.ID {
			actor = assignee
		}

		if err := access.CreateTask(actor.Principal(), owner, assignee.Principal()).Err(); err != nil {
			return err
		}

		task := Task{
			ID:     uuid.New().String(),
			Title:  title,
			Notes:  notes,
			UserID: assignee.ID,
			ListID: list.ID,
		}
		if err := tx.CreateTask(ctx, &task); err != nil {
			return err
		}
		result = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetTask(ctx context.Context, actorID, taskID string) (*Task, error) {
	var result *Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, task, ref, err := loadActorAndTask(ctx, tx, actorID, taskID, false)
		if err != nil {
			return err
		}
		if err := access.ReadTask(actor.Principal(), ref).Err(); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTask edits title and notes and, when AssigneeID is set, reassigns
// the task under the same rules as task creation.
func (s *Service) UpdateTask(ctx context.Context, actorID, taskID string, input UpdateTaskInput) (*Task, error) {
	var result *Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, task, ref, err := loadActorAndTask(ctx, tx, actorID, taskID, true)
		if err != nil {
			return err
		}

		var newAssignee *access.Principal
		if input.AssigneeID != nil && *input.AssigneeID != "" && *input.AssigneeID != task.UserID {
			target, err := lockUser(ctx, tx, *input.AssigneeID)
			if err != nil {
				return err
			}
			p := target.Principal()
			newAssignee = &p
		}

		if err := access.UpdateTask(actor.Principal(), ref, newAssignee).Err(); err != nil {
			return err
		}

		if input.Title != nil {
			title, err := validation.Required("title", *input.Title, validation.MaxNameLength)
			if err != nil {
				return err
			}
			task.Title = title
		}
		if input.Notes != nil {
			notes, err := validation.Optional("notes", input.Notes, MaxNotesLength)
			if err != nil {
				return err
			}
			task.Notes = notes
		}
		if newAssignee != nil {
			task.UserID = newAssignee.UserID
		}

		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetCompleted is limited to the assignee.
func (s *Service) SetCompleted(ctx context.Context, actorID, taskID string, completed bool) (*Task, error) {
	var result *Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, task, ref, err := loadActorAndTask(ctx, tx, actorID, taskID, true)
		if err != nil {
			return err
		}
		if err := access.SetTaskStatus(actor.Principal(), ref).Err(); err != nil {
			return err
		}

		task.Completed = completed
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTask fails with ErrIncompleteTaskDeletion for an open task
// regardless of who asks.
func (s *Service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, task, ref, err := loadActorAndTask(ctx, tx, actorID, taskID, false)
		if err != nil {
			return err
		}
		if !task.Completed {
			return ErrIncompleteTaskDeletion
		}
		if err := access.DeleteTask(actor.Principal(), ref).Err(); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, task.ID)
	})
}

func (s *Service) ListListTasks(ctx context.Context, actorID, listID string) ([]Task, error) {
	var result []Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := loadUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		list, owner, err := loadList(ctx, tx, listID)
		if err != nil {
			return err
		}
		if err := access.ReadList(actor.Principal(), owner).Err(); err != nil {
			return err
		}
		result, err = tx.ListByList(ctx, list.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListMyTasks(ctx context.Context, actorID string) ([]Task, error) {
	actor, err := loadUser(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAssignee(ctx, actor.ID)
}

func (s *Service) ListFamilyTasks(ctx context.Context, actorID string) ([]Task, error) {
	actor, err := loadUser(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	p := actor.Principal()
	if err := access.ReadFamilyTasks(p, p.FamilyID).Err(); err != nil {
		return nil, err
	}
	return s.repo.ListByFamily(ctx, p.FamilyID)
}

func loadUser(ctx context.Context, repo Repository, id string) (*user.User, error) {
	u, err := repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func lockUser(ctx context.Context, repo Repository, id string) (*user.User, error) {
	u, err := repo.GetUserForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func loadList(ctx context.Context, repo Repository, id string) (*lists.List, ownership.Owner, error) {
	list, err := repo.GetList(ctx, id)
	if err != nil {
		return nil, ownership.Owner{}, err
	}
	if list == nil {
		return nil, ownership.Owner{}, lists.ErrListNotFound
	}
	owner, err := list.Owner()
	if err != nil {
		return nil, ownership.Owner{}, fmt.Errorf("list %s: %w", list.ID, err)
	}
	return list, owner, nil
}

// loadActorAndTask reads the task row with FOR UPDATE when lock is set, so
// a write based on it cannot overwrite a reassignment committed meanwhile.
func loadActorAndTask(ctx context.Context, repo Repository, actorID, taskID string, lock bool) (*user.User, *Task, access.TaskRef, error) {
	actor, err := loadUser(ctx, repo, actorID)
	if err != nil {
		return nil, nil, access.TaskRef{}, err
	}

	getTask := repo.GetTask
	if lock {
		getTask = repo.GetTaskForUpdate
	}
	task, err := getTask(ctx, taskID)
	if err != nil {
		return nil, nil, access.TaskRef{}, err
	}
	if task == nil {
		return nil, nil, access.TaskRef{}, ErrTaskNotFound
	}

	_, owner, err := loadList(ctx, repo, task.ListID)
	if err != nil {
		return nil, nil, access.TaskRef{}, err
	}
	return actor, task, access.TaskRef{AssigneeID: task.UserID, ListOwner: owner}, nil
}
