package handler

import (
	"errors"
	"net/http"

	"family-tasks-go/internal/auth"
	"family-tasks-go/internal/domain/access"
	familydomain "family-tasks-go/internal/domain/family"
	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/validation"
	"family-tasks-go/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: conflict errors wrap the denial that caused them and
// must win over the generic permission mapping below.
var errorMappings = []errorMapping{
	{auth.ErrInvalidCredential, http.StatusUnauthorized, "invalid_token"},
	{auth.ErrUnknownPrincipal, http.StatusUnauthorized, "invalid_token"},
	{userdomain.ErrInvalidLogin, http.StatusBadRequest, "invalid_login"},
	{userdomain.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{familydomain.ErrAlreadyHasFamily, http.StatusConflict, "already_has_family"},
	{familydomain.ErrDuplicateAdmin, http.StatusConflict, "duplicate_admin"},
	{tasksdomain.ErrIncompleteTaskDeletion, http.StatusConflict, "incomplete_task"},
	{userdomain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{familydomain.ErrFamilyNotFound, http.StatusNotFound, "family_not_found"},
	{familydomain.ErrInviteCodeNotFound, http.StatusNotFound, "invite_code_not_found"},
	{listsdomain.ErrListNotFound, http.StatusNotFound, "list_not_found"},
	{tasksdomain.ErrTaskNotFound, http.StatusNotFound, "task_not_found"},
}

// writeDomainError maps err to a status and error envelope and logs it.
// Expected failures are business errors, denials are logged with their
// reason and anything unrecognised is an internal error.
func writeDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			log.BusinessError(op+": "+m.target.Error(), err, args...)
			writeError(w, m.status, m.code, m.target.Error())
			return
		}
	}

	var denied *access.DeniedError
	if errors.As(err, &denied) {
		log.Denied(op+": permission denied", string(denied.Action), string(denied.Reason), args...)
		writeError(w, http.StatusForbidden, "permission_denied", denied.Error())
		return
	}

	// Default-list settings are server configuration, so a validation error
	// raised while seeding a new family is still a server fault.
	if errors.Is(err, familydomain.ErrFamilyCreationFailed) {
		log.InternalError(op+": family creation failed", err, args...)
		writeError(w, http.StatusInternalServerError, "family_creation_failed", familydomain.ErrFamilyCreationFailed.Error())
		return
	}

	var invalid validation.ValidationError
	if errors.As(err, &invalid) {
		log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusUnprocessableEntity, "validation_error", invalid.Error())
		return
	}

	log.InternalError(op+": failed", err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
