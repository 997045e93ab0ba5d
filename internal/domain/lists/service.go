package lists

import (
	"context"
	"fmt"

	"family-tasks-go/internal/domain/access"
	"family-tasks-go/internal/domain/ownership"
	"family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/validation"
)

type Service struct {
	repo         Repository
	defaultColor string
}

func NewService(repo Repository, defaultColor string) *Service {
	if defaultColor == "" {
		defaultColor = DefaultColor
	}
	return &Service{repo: repo, defaultColor: defaultColor}
}

func (s *Service) CreateList(ctx context.Context, actorID string, input CreateListInput) (*List, error) {
	color := s.defaultColor
	if input.Color != nil && *input.Color != "" {
		color = *input.Color
	}

	var result *List
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}

		p := actor.Principal()
		var owner ownership.Owner
		if input.IsFamilyList {
			if !p.HasFamily() {
				return &access.DeniedError{Action: access.ActionCreateList, Reason: access.ReasonCreateFamilyList}
			}
			owner, err = ownership.Family(p.FamilyID)
		} else {
			owner, err = ownership.Personal(p.UserID)
		}
		if err != nil {
			return err
		}

		if err := access.CreateList(p, owner).Err(); err != nil {
			return err
		}

		list, err := New(input.Name, color, owner)
		if err != nil {
			return err
		}
		if err := tx.CreateList(ctx, list); err != nil {
			return err
		}
		result = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetList(ctx context.Context, actorID, listID string) (*List, error) {
	var result *List
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, list, owner, err := loadActorAndList(ctx, tx, actorID, listID)
		if err != nil {
			return err
		}
		if err := access.ReadList(actor.Principal(), owner).Err(); err != nil {
			return err
		}
		result = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) UpdateList(ctx context.Context, actorID, listID string, input UpdateListInput) (*List, error) {
	var result *List
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, list, owner, err := loadActorAndList(ctx, tx, actorID, listID)
		if err != nil {
			return err
		}
		if err := access.UpdateList(actor.Principal(), owner).Err(); err != nil {
			return err
		}

		if input.Name != nil {
			name, err := validation.Required("name", *input.Name, validation.MaxNameLength)
			if err != nil {
				return err
			}
			list.Name = name
		}
		if input.Color != nil {
			color, err := validation.Color(*input.Color)
			if err != nil {
				return err
			}
			list.Color = color
		}

		if err := tx.UpdateList(ctx, list); err != nil {
			return err
		}
		result = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteList removes the list; its tasks go with it.
func (s *Service) DeleteList(ctx context.Context, actorID, listID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, list, owner, err := loadActorAndList(ctx, tx, actorID, listID)
		if err != nil {
			return err
		}
		if err := access.DeleteList(actor.Principal(), owner).Err(); err != nil {
			return err
		}
		return tx.DeleteList(ctx, list.ID)
	})
}

// ClearCompleted deletes the completed tasks of a list and reports how
// many were removed.
func (s *Service) ClearCompleted(ctx context.Context, actorID, listID string) (int64, error) {
	var removed int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, list, owner, err := loadActorAndList(ctx, tx, actorID, listID)
		if err != nil {
			return err
		}
		if err := access.ClearCompleted(actor.Principal(), owner).Err(); err != nil {
			return err
		}
		removed, err = tx.DeleteCompletedTasks(ctx, list.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Service) ListPersonal(ctx context.Context, actorID string) ([]List, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, actor.ID)
}

func (s *Service) ListFamily(ctx context.Context, actorID string) ([]List, error) {
	actor, err := loadActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	p := actor.Principal()
	if err := access.ReadFamily(p, p.FamilyID).Err(); err != nil {
		return nil, err
	}
	return s.repo.ListByFamily(ctx, p.FamilyID)
}

func loadActor(ctx context.Context, repo Repository, actorID string) (*user.User, error) {
	actor, err := repo.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, user.ErrUserNotFound
	}
	return actor, nil
}

func loadActorAndList(ctx context.Context, repo Repository, actorID, listID string) (*user.User, *List, ownership.Owner, error) {
	actor, err := loadActor(ctx, repo, actorID)
	if err != nil {
		return nil, nil, ownership.Owner{}, err
	}

	list, err := repo.GetList(ctx, listID)
	if err != nil {
		return nil, nil, ownership.Owner{}, err
	}
	if list == nil {
		return nil, nil, ownership.Owner{}, ErrListNotFound
	}

	owner, err := list.Owner()
	if err != nil {
		return nil, nil, ownership.Owner{}, fmt.Errorf("list %s: %w", list.ID, err)
	}
	return actor, list, owner, nil
}
