package handler

import (
	"net/http"
	"time"

	listsdomain "family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/transport/httpserver/middleware"
)

type createListRequest struct {
	Name         string  `json:"name"`
	Color        *string `json:"color"`
	IsFamilyList bool    `json:"is_family_list"`
}

type updateListRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type listResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	IsFamilyList bool      `json:"is_family_list"`
	UserID       *string   `json:"user_id"`
	FamilyID     *string   `json:"family_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type clearCompletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func toListResponse(l *listsdomain.List) listResponse {
	return listResponse{
		ID:           l.ID,
		Name:         l.Name,
		Color:        l.Color,
		IsFamilyList: l.IsFamilyList,
		UserID:       l.UserID,
		FamilyID:     l.FamilyID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toListResponses(items []listsdomain.List) []listResponse {
	response := make([]listResponse, 0, len(items))
	for i := range items {
		response = append(response, toListResponse(&items[i]))
	}
	return response
}

func (h *Handlers) ListPersonalLists(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	items, err := h.Lists.ListPersonal(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.personal", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toListResponses(items))
}

func (h *Handlers) ListFamilyLists(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	items, err := h.Lists.ListFamily(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.family", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toListResponses(items))
}

func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	list, err := h.Lists.CreateList(r.Context(), user.ID, listsdomain.CreateListInput{
		Name:         req.Name,
		Color:        req.Color,
		IsFamilyList: req.IsFamilyList,
	})
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.create", err, "user_id", user.ID, "is_family_list", req.IsFamilyList)
		return
	}

	writeJSON(w, http.StatusCreated, toListResponse(list))
}

func (h *Handlers) GetList(w http.ResponseWriter, r *http.Request) {
	user, listID, ok := h.listRequest(w, r, "lists.get")
	if !ok {
		return
	}

	list, err := h.Lists.GetList(r.Context(), user, listID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.get", err, "user_id", user, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (h *Handlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	user, listID, ok := h.listRequest(w, r, "lists.update")
	if !ok {
		return
	}

	var req updateListRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	list, err := h.Lists.UpdateList(r.Context(), user, listID, listsdomain.UpdateListInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.update", err, "user_id", user, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	user, listID, ok := h.listRequest(w, r, "lists.delete")
	if !ok {
		return
	}

	if err := h.Lists.DeleteList(r.Context(), user, listID); err != nil {
		writeDomainError(w, h.requestLog(r), "lists.delete", err, "user_id", user, "list_id", listID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	user, listID, ok := h.listRequest(w, r, "lists.clear")
	if !ok {
		return
	}

	deleted, err := h.Lists.ClearCompleted(r.Context(), user, listID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.clear", err, "user_id", user, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusOK, clearCompletedResponse{Deleted: deleted})
}

func (h *Handlers) ListListTasks(w http.ResponseWriter, r *http.Request) {
	user, listID, ok := h.listRequest(w, r, "lists.tasks")
	if !ok {
		return
	}

	items, err := h.Tasks.ListListTasks(r.Context(), user, listID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "lists.tasks", err, "user_id", user, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(items))
}

func (h *Handlers) listRequest(w http.ResponseWriter, r *http.Request, op string) (string, string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return "", "", false
	}
	listID, ok := pathID(r, "list_id")
	if !ok {
		writeDomainError(w, h.requestLog(r), op, listsdomain.ErrListNotFound, "user_id", user.ID)
		return "", "", false
	}
	return user.ID, listID, true
}
