package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"family-tasks-go/internal/auth"
	"family-tasks-go/internal/domain/access"
	familydomain "family-tasks-go/internal/domain/family"
	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/transport/httpserver/middleware"
	"family-tasks-go/internal/validation"
	"family-tasks-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestWriteDomainError(t *testing.T) {
	denied := &access.DeniedError{Action: access.ActionDeleteList, Reason: access.ReasonManageFamilyList}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{name: "invalid credential", err: auth.ErrInvalidCredential, status: http.StatusUnauthorized, code: "invalid_token"},
		{name: "bad login", err: userdomain.ErrInvalidLogin, status: http.StatusBadRequest, code: "invalid_login", message: "incorrect email or password"},
		{name: "list not found", err: listsdomain.ErrListNotFound, status: http.StatusNotFound, code: "list_not_found", message: "list not found"},
		{name: "wrapped task not found", err: fmt.Errorf("load: %w", tasksdomain.ErrTaskNotFound), status: http.StatusNotFound, code: "task_not_found"},
		{name: "denied", err: denied, status: http.StatusForbidden, code: "permission_denied", message: "not enough permissions to manage a family list"},
		{
			name:   "conflict wrapping denial",
			err:    fmt.Errorf("%w: %w", familydomain.ErrAlreadyHasFamily, denied),
			status: http.StatusConflict,
			code:   "already_has_family",
		},
		{name: "duplicate admin", err: familydomain.ErrDuplicateAdmin, status: http.StatusConflict, code: "duplicate_admin"},
		{name: "email taken", err: userdomain.ErrEmailTaken, status: http.StatusConflict, code: "email_taken"},
		{name: "incomplete task", err: tasksdomain.ErrIncompleteTaskDeletion, status: http.StatusConflict, code: "incomplete_task"},
		{
			name:    "validation",
			err:     validation.ValidationError{Field: "title", Constraint: "is required"},
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "title: is required",
		},
		{
			name:   "creation failed",
			err:    fmt.Errorf("%w: %w", familydomain.ErrFamilyCreationFailed, errors.New("insert failed")),
			status: http.StatusInternalServerError,
			code:   "family_creation_failed",
		},
		{
			name:   "bad default list",
			err:    fmt.Errorf("%w: %w", familydomain.ErrFamilyCreationFailed, validation.ValidationError{Field: "color", Constraint: "must be a #RRGGBB hex color"}),
			status: http.StatusInternalServerError,
			code:   "family_creation_failed",
		},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal_error", message: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			writeDomainError(rec, logger.New(&logs, slog.LevelDebug, "json"), "test.op", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
			assert.Contains(t, logs.String(), "test.op")
		})
	}
}

func TestDeniedIsLoggedWithReason(t *testing.T) {
	var logs bytes.Buffer
	rec := httptest.NewRecorder()
	err := &access.DeniedError{Action: access.ActionLeaveFamily, Reason: access.ReasonAdminCannotLeave}
	writeDomainError(rec, logger.New(&logs, slog.LevelDebug, "json"), "families.leave", err, "user_id", "u1")

	assert.Contains(t, logs.String(), string(access.ReasonAdminCannotLeave))
	assert.Contains(t, logs.String(), "leave_family")
	assert.Contains(t, logs.String(), `"user_id":"u1"`)
}

func TestInvalidPathIDsAreNotFound(t *testing.T) {
	h := New(nil, nil, nil, nil, logger.New(&bytes.Buffer{}, slog.LevelInfo, "json"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), &userdomain.User{ID: "u1"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/lists/{list_id}", h.GetList)
	r.Get("/tasks/{task_id}", h.GetTask)
	r.Get("/families/{family_id}", h.GetFamily)
	r.Post("/users/promote/{user_id}", h.PromoteMember)

	tests := []struct {
		method string
		path   string
		code   string
	}{
		{http.MethodGet, "/lists/42", "list_not_found"},
		{http.MethodGet, "/tasks/not-a-uuid", "task_not_found"},
		{http.MethodGet, "/families/xyz", "family_not_found"},
		{http.MethodPost, "/users/promote/abc", "user_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.code, decodeEnvelope(t, rec).Code)
		})
	}
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	h := New(nil, nil, nil, nil, logger.New(&bytes.Buffer{}, slog.LevelInfo, "json"))
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseID(t *testing.T) {
	id, ok := parseID(" 6F9619FF-8B86-D011-B42D-00C04FC964FF ")
	require.True(t, ok)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	blank := " "
	got, ok := optionalID(&blank)
	assert.True(t, ok)
	assert.Nil(t, got)

	bad := "nope"
	_, ok = optionalID(&bad)
	assert.False(t, ok)
}
