package family

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"family-tasks-go/internal/domain/access"
	"family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/domain/ownership"
	"family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/invitecode"
	"family-tasks-go/internal/validation"
	"github.com/google/uuid"
)

// Service coordinates family lifecycle: creation, joining, promotion,
// leaving, removal and deletion. Each operation runs in one transaction.
type Service struct {
	repo         Repository
	defaults     DefaultLists
	generateCode func(length int) (string, error)
}

func NewService(repo Repository, defaults DefaultLists) *Service {
	if defaults.FamilyListName == "" {
		defaults.FamilyListName = "Family"
	}
	if defaults.PersonalListName == "" {
		defaults.PersonalListName = "Personal"
	}
	if defaults.Color == "" {
		defaults.Color = lists.DefaultColor
	}
	return &Service{repo: repo, defaults: defaults, generateCode: invitecode.Generate}
}

// CreateFamily creates a family, joins the creator, makes them admin and
// seeds a family list and a personal list.
func (s *Service) CreateFamily(ctx context.Context, actorID, name string) (*Family, error) {
	name, err := validation.Required("name", name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}

	var result Family
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := lockUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := access.CreateFamily(actor.Principal()).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAlreadyHasFamily, err)
		}

		family, err := s.createFamily(ctx, tx, actor, name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFamilyCreationFailed, err)
		}
		result = *family
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) createFamily(ctx context.Context, tx Repository, actor *user.User, name string) (*Family, error) {
	code, err := invitecode.Unique(ctx, s.generateCode, tx.IsInviteCodeTaken)
	if err != nil {
		return nil, err
	}

	family := Family{
		ID:         uuid.New().String(),
		Name:       name,
		InviteCode: code,
	}
	if err := tx.CreateFamily(ctx, &family); err != nil {
		return nil, err
	}
	if err := tx.SetUserFamily(ctx, actor.ID, &family.ID); err != nil {
		return nil, err
	}
	if err := tx.SetUserAdmin(ctx, actor.ID, true); err != nil {
		return nil, err
	}

	familyOwner, err := ownership.Family(family.ID)
	if err != nil {
		return nil, err
	}
	if err := s.seedList(ctx, tx, s.defaults.FamilyListName, familyOwner); err != nil {
		return nil, err
	}
	if err := s.seedPersonalList(ctx, tx, actor.ID); err != nil {
		return nil, err
	}
	return &family, nil
}

// JoinFamily adds the actor to the family owning code as a plain member
// and seeds a personal list.
func (s *Service) JoinFamily(ctx context.Context, actorID, code string) (*Family, error) {
	code, err := validation.Required("invite_code", code, invitecode.Length)
	if err != nil {
		return nil, err
	}

	var result Family
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := lockUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := access.JoinFamily(actor.Principal()).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAlreadyHasFamily, err)
		}

		family, err := tx.GetFamilyByInviteCode(ctx, code)
		if err != nil {
			return err
		}
		if family == nil {
			return ErrInviteCodeNotFound
		}

		if err := tx.SetUserFamily(ctx, actor.ID, &family.ID); err != nil {
			return err
		}
		if err := s.seedPersonalList(ctx, tx, actor.ID); err != nil {
			return err
		}
		result = *family
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetMyFamily(ctx context.Context, actorID string) (*Family, error) {
	actor, err := loadUser(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.InFamily() {
		return nil, ErrFamilyNotFound
	}
	return loadFamily(ctx, s.repo, *actor.FamilyID)
}

func (s *Service) GetFamily(ctx context.Context, actorID, familyID string) (*Family, error) {
	actor, err := loadUser(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if err := access.ReadFamily(actor.Principal(), familyID).Err(); err != nil {
		return nil, err
	}
	return loadFamily(ctx, s.repo, familyID)
}

func (s *Service) GetInviteCode(ctx context.Context, actorID, familyID string) (string, error) {
	family, err := s.GetFamily(ctx, actorID, familyID)
	if err != nil {
		return "", err
	}
	return family.InviteCode, nil
}

func (s *Service) ListMembers(ctx context.Context, actorID, familyID string) ([]user.User, error) {
	actor, err := loadUser(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if err := access.ReadFamily(actor.Principal(), familyID).Err(); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, familyID)
}

func (s *Service) RenameFamily(ctx context.Context, actorID, familyID, name string) (*Family, error) {
	name, err := validation.Required("name", name, validation.MaxNameLength)
	if err != nil {
		return nil, err
	}

	var result *Family
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := loadUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := access.RenameFamily(actor.Principal(), familyID).Err(); err != nil {
			return err
		}

		family, err := loadFamily(ctx, tx, familyID)
		if err != nil {
			return err
		}
		if err := tx.UpdateFamilyName(ctx, family.ID, name); err != nil {
			return err
		}
		family.Name = name
		result = family
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PromoteMember hands the admin role from the actor to target. The actor
// is demoted before the target is promoted so the family never has two
// admins, and both happen in one transaction so it never has none.
func (s *Service) PromoteMember(ctx context.Context, actorID, targetID string) (*user.User, error) {
	var result *user.User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		locked, err := lockUsers(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		actor, target := locked[actorID], locked[targetID]

		if err := access.PromoteMember(actor.Principal(), target.Principal()).Err(); err != nil {
			return err
		}
		if target.IsAdmin {
			return ErrDuplicateAdmin
		}

		familyID := *actor.FamilyID
		if err := tx.SetUserAdmin(ctx, actor.ID, false); err != nil {
			return err
		}
		if err := tx.SetUserAdmin(ctx, target.ID, true); err != nil {
			return err
		}

		admins, err := tx.CountAdmins(ctx, familyID)
		if err != nil {
			return err
		}
		if admins != 1 {
			return fmt.Errorf("%w: family %s has %d admins", ErrDuplicateAdmin, familyID, admins)
		}

		target.IsAdmin = true
		result = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LeaveFamily detaches a non-admin member. Their tasks in family lists are
// handed to the admin.
func (s *Service) LeaveFamily(ctx context.Context, actorID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := lockUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := access.LeaveFamily(actor.Principal()).Err(); err != nil {
			return err
		}
		return detachMember(ctx, tx, *actor.FamilyID, actor.ID)
	})
}

func (s *Service) RemoveMember(ctx context.Context, actorID, familyID, targetID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		locked, err := lockUsers(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		actor, target := locked[actorID], locked[targetID]

		p := actor.Principal()
		if err := access.RemoveMember(p, target.Principal()).Err(); err != nil {
			return err
		}
		if p.FamilyID != familyID {
			return &access.DeniedError{Action: access.ActionRemoveMember, Reason: access.ReasonRemoveOtherFamily}
		}
		return detachMember(ctx, tx, familyID, target.ID)
	})
}

// DeleteFamily removes the family. Members keep their accounts and
// personal lists; family lists and their tasks are deleted.
func (s *Service) DeleteFamily(ctx context.Context, actorID, familyID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := lockUser(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := access.DeleteFamily(actor.Principal(), familyID).Err(); err != nil {
			return err
		}
		if _, err := loadFamily(ctx, tx, familyID); err != nil {
			return err
		}

		if err := tx.SetUserAdmin(ctx, actor.ID, false); err != nil {
			return err
		}
		return tx.DeleteFamily(ctx, familyID)
	})
}

func (s *Service) seedPersonalList(ctx context.Context, tx Repository, userID string) error {
	owner, err := ownership.Personal(userID)
	if err != nil {
		return err
	}
	return s.seedList(ctx, tx, s.defaults.PersonalListName, owner)
}

func (s *Service) seedList(ctx context.Context, tx Repository, name string, owner ownership.Owner) error {
	list, err := lists.New(name, s.defaults.Color, owner)
	if err != nil {
		return err
	}
	return tx.CreateList(ctx, list)
}

func detachMember(ctx context.Context, tx Repository, familyID, userID string) error {
	admin, err := tx.GetAdmin(ctx, familyID)
	if err != nil {
		return err
	}
	if admin == nil {
		return fmt.Errorf("family %s has no admin", familyID)
	}
	if err := tx.ReassignFamilyTasks(ctx, familyID, userID, admin.ID); err != nil {
		return err
	}
	if err := tx.SetUserAdmin(ctx, userID, false); err != nil {
		return err
	}
	return tx.SetUserFamily(ctx, userID, nil)
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

// lockUsers locks the rows in id order so two concurrent operations on
// the same pair cannot deadlock.
func lockUsers(ctx context.Context, repo Repository, ids ...string) (map[string]*user.User, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	locked := make(map[string]*user.User, len(ordered))
	for _, id := range ordered {
		if _, ok := locked[id]; ok {
			continue
		}
		u, err := lockUser(ctx, repo, id)
		if err != nil {
			return nil, err
		}
		locked[id] = u
	}
	return locked, nil
}

func loadFamily(ctx context.Context, repo Repository, id string) (*Family, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrFamilyNotFound
	}
	family, err := repo.GetFamily(ctx, id)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}
