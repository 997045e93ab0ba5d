package access

import "family-tasks-go/internal/domain/ownership"

func CreateFamily(p Principal) Decision {
	if p.HasFamily() {
		return deny(ActionCreateFamily, ReasonAlreadyInFamily)
	}
	return allow(ActionCreateFamily)
}

// JoinFamily only checks the principal; resolving the invite code is a
// lookup and fails as not found.
func JoinFamily(p Principal) Decision {
	if p.HasFamily() {
		return deny(ActionJoinFamily, ReasonAlreadyInFamily)
	}
	return allow(ActionJoinFamily)
}

// ReadFamily covers the family itself, its members and its invite code.
func ReadFamily(p Principal, familyID string) Decision {
	return requireMember(ActionReadFamily, p, familyID)
}

func ReadFamilyTasks(p Principal, familyID string) Decision {
	return requireMember(ActionReadFamilyTasks, p, familyID)
}

func RenameFamily(p Principal, familyID string) Decision {
	return requireAdmin(ActionRenameFamily, p, familyID)
}

func DeleteFamily(p Principal, familyID string) Decision {
	return requireAdmin(ActionDeleteFamily, p, familyID)
}

func LeaveFamily(p Principal) Decision {
	if !p.HasFamily() {
		return deny(ActionLeaveFamily, ReasonNotInFamily)
	}
	if p.IsAdmin {
		return deny(ActionLeaveFamily, ReasonAdminCannotLeave)
	}
	return allow(ActionLeaveFamily)
}

// PromoteMember lets the current admin hand the admin role to another
// member of the same family.
func PromoteMember(p Principal, target Principal) Decision {
	if !p.IsAdminOf(p.FamilyID) {
		return deny(ActionPromoteMember, ReasonNotFamilyAdmin)
	}
	if !target.IsMemberOf(p.FamilyID) {
		return deny(ActionPromoteMember, ReasonPromoteOtherFamily)
	}
	return allow(ActionPromoteMember)
}

func RemoveMember(p Principal, target Principal) Decision {
	if !p.IsAdminOf(p.FamilyID) {
		return deny(ActionRemoveMember, ReasonNotFamilyAdmin)
	}
	if !target.IsMemberOf(p.FamilyID) {
		return deny(ActionRemoveMember, ReasonRemoveOtherFamily)
	}
	if target.UserID == p.UserID {
		return deny(ActionRemoveMember, ReasonRemoveSelf)
	}
	return allow(ActionRemoveMember)
}

func CreateList(p Principal, owner ownership.Owner) Decision {
	switch owner.Kind() {
	case ownership.KindPersonal:
		if owner.UserID() != p.UserID {
			return deny(ActionCreateList, ReasonCreateListForOthers)
		}
		return allow(ActionCreateList)
	case ownership.KindFamily:
		if !p.IsAdminOf(owner.FamilyID()) {
			return deny(ActionCreateList, ReasonCreateFamilyList)
		}
		return allow(ActionCreateList)
	default:
		return deny(ActionCreateList, ReasonUnownedResource)
	}
}

// ReadList also governs reading the tasks of a list.
func ReadList(p Principal, owner ownership.Owner) Decision {
	switch owner.Kind() {
	case ownership.KindPersonal:
		if owner.UserID() != p.UserID {
			return deny(ActionReadList, ReasonReadOthersList)
		}
		return allow(ActionReadList)
	case ownership.KindFamily:
		if !p.IsMemberOf(owner.FamilyID()) {
			return deny(ActionReadList, ReasonReadOtherFamilyList)
		}
		return allow(ActionReadList)
	default:
		return deny(ActionReadList, ReasonUnownedResource)
	}
}

func UpdateList(p Principal, owner ownership.Owner) Decision {
	return manageList(ActionUpdateList, p, owner)
}

func DeleteList(p Principal, owner ownership.Owner) Decision {
	return manageList(ActionDeleteList, p, owner)
}

func ClearCompleted(p Principal, owner ownership.Owner) Decision {
	return manageList(ActionClearCompleted, p, owner)
}

// CreateTask checks the list scope and the requested assignee. For a
// personal list the assignee is always the owner.
func CreateTask(p Principal, listOwner ownership.Owner, assignee Principal) Decision {
	switch listOwner.Kind() {
	case ownership.KindPersonal:
		if listOwner.UserID() != p.UserID {
			return deny(ActionCreateTask, ReasonTaskInOthersList)
		}
		if assignee.UserID != p.UserID {
			return deny(ActionCreateTask, ReasonAssignToOthers)
		}
		return allow(ActionCreateTask)
	case ownership.KindFamily:
		familyID := listOwner.FamilyID()
		if !p.IsMemberOf(familyID) {
			return deny(ActionCreateTask, ReasonTaskInOtherFamilyList)
		}
		if assignee.UserID != p.UserID {
			if !p.IsAdminOf(familyID) {
				return deny(ActionCreateTask, ReasonAssignToOthers)
			}
			if !assignee.IsMemberOf(familyID) {
				return deny(ActionCreateTask, ReasonAssignOutsideFamily)
			}
		}
		return allow(ActionCreateTask)
	default:
		return deny(ActionCreateTask, ReasonUnownedResource)
	}
}

func ReadTask(p Principal, task TaskRef) Decision {
	if task.AssigneeID == p.UserID {
		return allow(ActionReadTask)
	}
	if task.ListOwner.IsFamily() && p.IsMemberOf(task.ListOwner.FamilyID()) {
		return allow(ActionReadTask)
	}
	return deny(ActionReadTask, ReasonReadOthersTask)
}

// UpdateTask covers title/notes edits and, when newAssignee is non-nil and
// differs from the current assignee, reassignment.
func UpdateTask(p Principal, task TaskRef, newAssignee *Principal) Decision {
	familyAdmin := task.ListOwner.IsFamily() && p.IsAdminOf(task.ListOwner.FamilyID())
	if task.AssigneeID != p.UserID && !familyAdmin {
		return deny(ActionUpdateTask, ReasonUpdateOthersTask)
	}

	if newAssignee == nil || newAssignee.UserID == task.AssigneeID {
		return allow(ActionUpdateTask)
	}

	switch task.ListOwner.Kind() {
	case ownership.KindPersonal:
		if newAssignee.UserID != task.ListOwner.UserID() {
			return deny(ActionUpdateTask, ReasonAssignToOthers)
		}
	case ownership.KindFamily:
		if !familyAdmin && newAssignee.UserID != p.UserID {
			return deny(ActionUpdateTask, ReasonAssignToOthers)
		}
		if !newAssignee.IsMemberOf(task.ListOwner.FamilyID()) {
			return deny(ActionUpdateTask, ReasonAssignOutsideFamily)
		}
	default:
		return deny(ActionUpdateTask, ReasonUnownedResource)
	}
	return allow(ActionUpdateTask)
}

// SetTaskStatus is assignee-only; admins cannot toggle others' tasks.
func SetTaskStatus(p Principal, task TaskRef) Decision {
	if task.AssigneeID != p.UserID {
		return deny(ActionSetTaskStatus, ReasonSetOthersTaskStatus)
	}
	return allow(ActionSetTaskStatus)
}

// DeleteTask is assignee-only. The completed precondition is a state
// check owned by the caller.
func DeleteTask(p Principal, task TaskRef) Decision {
	if task.AssigneeID != p.UserID {
		return deny(ActionDeleteTask, ReasonDeleteOthersTask)
	}
	return allow(ActionDeleteTask)
}

func manageList(action Action, p Principal, owner ownership.Owner) Decision {
	switch owner.Kind() {
	case ownership.KindPersonal:
		if owner.UserID() != p.UserID {
			return deny(action, ReasonManageOthersList)
		}
		return allow(action)
	case ownership.KindFamily:
		if !p.IsAdmin {
			return deny(action, ReasonManageFamilyList)
		}
		if !p.IsMemberOf(owner.FamilyID()) {
			return deny(action, ReasonManageOtherFamilyList)
		}
		return allow(action)
	default:
		return deny(action, ReasonUnownedResource)
	}
}

func requireMember(action Action, p Principal, familyID string) Decision {
	if !p.HasFamily() {
		return deny(action, ReasonNotInFamily)
	}
	if !p.IsMemberOf(familyID) {
		return deny(action, ReasonOtherFamily)
	}
	return allow(action)
}

func requireAdmin(action Action, p Principal, familyID string) Decision {
	if !p.IsMemberOf(familyID) {
		return deny(action, ReasonOtherFamily)
	}
	if !p.IsAdmin {
		return deny(action, ReasonNotFamilyAdmin)
	}
	return allow(action)
}
