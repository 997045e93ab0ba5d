// Package access decides whether a principal may perform an action on a
// family, list, task or member. Every function is pure: callers load the
// rows, the engine only compares identifiers and flags.
package access

import (
	"errors"
	"fmt"

	"family-tasks-go/internal/domain/ownership"
)

var ErrPermissionDenied = errors.New("permission denied")

type Action string

const (
	ActionCreateFamily    Action = "create_family"
	ActionJoinFamily      Action = "join_family"
	ActionReadFamily      Action = "read_family"
	ActionRenameFamily    Action = "rename_family"
	ActionDeleteFamily    Action = "delete_family"
	ActionLeaveFamily     Action = "leave_family"
	ActionRemoveMember    Action = "remove_member"
	ActionPromoteMember   Action = "promote_member"
	ActionCreateList      Action = "create_list"
	ActionReadList        Action = "read_list"
	ActionUpdateList      Action = "update_list"
	ActionDeleteList      Action = "delete_list"
	ActionClearCompleted  Action = "clear_completed"
	ActionCreateTask      Action = "create_task"
	ActionReadTask        Action = "read_task"
	ActionUpdateTask      Action = "update_task"
	ActionSetTaskStatus   Action = "set_task_status"
	ActionDeleteTask      Action = "delete_task"
	ActionReadFamilyTasks Action = "read_family_tasks"
)

// Reason completes the sentence "not enough permissions to ...".
type Reason string

const (
	ReasonAlreadyInFamily        Reason = "create or join a family while already in one"
	ReasonNotInFamily            Reason = "act on a family without being a member"
	ReasonOtherFamily            Reason = "access another family"
	ReasonNotFamilyAdmin         Reason = "manage the family without being its admin"
	ReasonPromoteOtherFamily     Reason = "promote another family's user"
	ReasonRemoveOtherFamily      Reason = "remove another family's user"
	ReasonRemoveSelf             Reason = "remove yourself from the family"
	ReasonAdminCannotLeave       Reason = "leave a family as its admin"
	ReasonCreateListForOthers    Reason = "create a list for another user"
	ReasonCreateFamilyList       Reason = "create a family list"
	ReasonReadOthersList         Reason = "read another user's list"
	ReasonReadOtherFamilyList    Reason = "read another family's list"
	ReasonManageFamilyList       Reason = "manage a family list"
	ReasonManageOtherFamilyList  Reason = "manage another family's list"
	ReasonManageOthersList       Reason = "manage another user's list"
	ReasonTaskInOthersList       Reason = "create tasks in another user's list"
	ReasonTaskInOtherFamilyList  Reason = "create a task in another family's list"
	ReasonAssignToOthers         Reason = "assign tasks to others"
	ReasonAssignOutsideFamily    Reason = "assign tasks to someone outside the family"
	ReasonReadOthersTask         Reason = "read another user's task"
	ReasonUpdateOthersTask       Reason = "update another user's task"
	ReasonSetOthersTaskStatus    Reason = "change the status of another user's task"
	ReasonDeleteOthersTask       Reason = "delete another user's task"
	ReasonUnownedResource        Reason = "access a resource without an owner"
)

// Principal is the acting user as seen by the engine. FamilyID is empty
// when the user belongs to no family.
type Principal struct {
	UserID   string
	FamilyID string
	IsAdmin  bool
}

func (p Principal) HasFamily() bool {
	return p.FamilyID != ""
}

func (p Principal) IsMemberOf(familyID string) bool {
	return familyID != "" && p.FamilyID == familyID
}

// IsAdminOf ignores a stale admin flag on a user without a family.
func (p Principal) IsAdminOf(familyID string) bool {
	return p.IsAdmin && p.IsMemberOf(familyID)
}

// TaskRef is the part of a task the engine needs: its assignee and the
// owner of the list it lives in.
type TaskRef struct {
	AssigneeID string
	ListOwner  ownership.Owner
}

type Decision struct {
	Action  Action
	Allowed bool
	Reason  Reason
}

func allow(action Action) Decision {
	return Decision{Action: action, Allowed: true}
}

func deny(action Action, reason Reason) Decision {
	return Decision{Action: action, Reason: reason}
}

// Err returns nil for an allowed decision and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Action: d.Action, Reason: d.Reason}
}

type DeniedError struct {
	Action Action
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("not enough permissions to %s", e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// ReasonOf extracts the denial reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var denied *DeniedError
	if !errors.As(err, &denied) {
		return "", false
	}
	return denied.Reason, true
}
