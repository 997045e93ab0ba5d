package handler

import (
	"net/http"
	"time"

	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/transport/httpserver/middleware"
	"family-tasks-go/internal/validation"
)

type createTaskRequest struct {
	Title  string  `json:"title"`
	Notes  *string `json:"notes"`
	ListID string  `json:"list_id"`
	UserID *string `json:"user_id"`
}

type updateTaskRequest struct {
	Title  *string `json:"title"`
	Notes  *string `json:"notes"`
	UserID *string `json:"user_id"`
}

type taskStatusRequest struct {
	Completed *bool `json:"completed"`
}

type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     *string   `json:"notes"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"user_id"`
	ListID    string    `json:"list_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTaskResponse(t *tasksdomain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		Completed: t.Completed,
		UserID:    t.UserID,
		ListID:    t.ListID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTaskResponses(items []tasksdomain.Task) []taskResponse {
	response := make([]taskResponse, 0, len(items))
	for i := range items {
		response = append(response, toTaskResponse(&items[i]))
	}
	return response
}

func (h *Handlers) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	items, err := h.Tasks.ListMyTasks(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.mine", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(items))
}

func (h *Handlers) ListFamilyTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	items, err := h.Tasks.ListFamilyTasks(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.family", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(items))
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	listID, ok := parseID(req.ListID)
	if !ok {
		writeDomainError(w, h.requestLog(r), "tasks.create", listsdomain.ErrListNotFound, "user_id", user.ID)
		return
	}
	assigneeID, ok := optionalID(req.UserID)
	if !ok {
		writeDomainError(w, h.requestLog(r), "tasks.create", userdomain.ErrUserNotFound, "user_id", user.ID)
		return
	}

	task, err := h.Tasks.CreateTask(r.Context(), user.ID, tasksdomain.CreateTaskInput{
		ListID:     listID,
		Title:      req.Title,
		Notes:      req.Notes,
		AssigneeID: assigneeID,
	})
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.create", err, "user_id", user.ID, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r, "tasks.get")
	if !ok {
		return
	}

	task, err := h.Tasks.GetTask(r.Context(), user, taskID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.get", err, "user_id", user, "task_id", taskID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r, "tasks.update")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	assigneeID, ok := optionalID(req.UserID)
	if !ok {
		writeDomainError(w, h.requestLog(r), "tasks.update", userdomain.ErrUserNotFound, "user_id", user, "task_id", taskID)
		return
	}

	task, err := h.Tasks.UpdateTask(r.Context(), user, taskID, tasksdomain.UpdateTaskInput{
		Title:      req.Title,
		Notes:      req.Notes,
		AssigneeID: assigneeID,
	})
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.update", err, "user_id", user, "task_id", taskID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r, "tasks.status")
	if !ok {
		return
	}

	var req taskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if req.Completed == nil {
		err := validation.ValidationError{Field: "completed", Constraint: "is required"}
		writeDomainError(w, h.requestLog(r), "tasks.status", err, "user_id", user, "task_id", taskID)
		return
	}

	task, err := h.Tasks.SetCompleted(r.Context(), user, taskID, *req.Completed)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.status", err, "user_id", user, "task_id", taskID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.taskRequest(w, r, "tasks.delete")
	if !ok {
		return
	}

	if err := h.Tasks.DeleteTask(r.Context(), user, taskID); err != nil {
		writeDomainError(w, h.requestLog(r), "tasks.delete", err, "user_id", user, "task_id", taskID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) taskRequest(w http.ResponseWriter, r *http.Request, op string) (string, string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return "", "", false
	}
	taskID, ok := pathID(r, "task_id")
	if !ok {
		writeDomainError(w, h.requestLog(r), op, tasksdomain.ErrTaskNotFound, "user_id", user.ID)
		return "", "", false
	}
	return user.ID, taskID, true
}
