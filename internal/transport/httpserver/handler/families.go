package handler

import (
	"net/http"
	"time"

	familydomain "family-tasks-go/internal/domain/family"
	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/transport/httpserver/middleware"
)

type familyNameRequest struct {
	Name string `json:"name"`
}

type joinFamilyRequest struct {
	InviteCode string `json:"invite_code"`
}

type familyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type inviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

func toFamilyResponse(f *familydomain.Family) familyResponse {
	return familyResponse{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req familyNameRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.create", err, "user_id", user.ID)
		return
	}

	h.requestLog(r).Info("families.create: family created", "user_id", user.ID, "family_id", result.ID)
	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.Families.JoinFamily(r.Context(), user.ID, req.InviteCode)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.join", err, "user_id", user.ID)
		return
	}

	h.requestLog(r).Info("families.join: member joined", "user_id", user.ID, "family_id", result.ID)
	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	if err := h.Families.LeaveFamily(r.Context(), user.ID); err != nil {
		writeDomainError(w, h.requestLog(r), "families.leave", err, "user_id", user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetMyFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	result, err := h.Families.GetMyFamily(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.get_me", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.get")
	if !ok {
		return
	}

	result, err := h.Families.GetFamily(r.Context(), user, familyID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.get", err, "user_id", user, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) RenameFamily(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.rename")
	if !ok {
		return
	}

	var req familyNameRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.Families.RenameFamily(r.Context(), user, familyID, req.Name)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.rename", err, "user_id", user, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.delete")
	if !ok {
		return
	}

	if err := h.Families.DeleteFamily(r.Context(), user, familyID); err != nil {
		writeDomainError(w, h.requestLog(r), "families.delete", err, "user_id", user, "family_id", familyID)
		return
	}

	h.requestLog(r).Info("families.delete: family deleted", "user_id", user, "family_id", familyID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.list_members")
	if !ok {
		return
	}

	members, err := h.Families.ListMembers(r.Context(), user, familyID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.list_members", err, "user_id", user, "family_id", familyID)
		return
	}

	response := make([]userResponse, 0, len(members))
	for i := range members {
		response = append(response, toUserResponse(&members[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetInviteCode(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.invite_code")
	if !ok {
		return
	}

	code, err := h.Families.GetInviteCode(r.Context(), user, familyID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "families.invite_code", err, "user_id", user, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, inviteCodeResponse{InviteCode: code})
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := h.familyRequest(w, r, "families.remove_member")
	if !ok {
		return
	}
	targetID, ok := pathID(r, "user_id")
	if !ok {
		writeDomainError(w, h.requestLog(r), "families.remove_member", userdomain.ErrUserNotFound, "user_id", user)
		return
	}

	if err := h.Families.RemoveMember(r.Context(), user, familyID, targetID); err != nil {
		writeDomainError(w, h.requestLog(r), "families.remove_member", err, "user_id", user, "family_id", familyID, "target_id", targetID)
		return
	}

	h.requestLog(r).Info("families.remove_member: member removed", "user_id", user, "family_id", familyID, "target_id", targetID)
	w.WriteHeader(http.StatusNoContent)
}

// familyRequest resolves the acting user and the {family_id} path
// parameter, writing the error response itself when either is missing.
func (h *Handlers) familyRequest(w http.ResponseWriter, r *http.Request, op string) (string, string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return "", "", false
	}
	familyID, ok := pathID(r, "family_id")
	if !ok {
		writeDomainError(w, h.requestLog(r), op, familydomain.ErrFamilyNotFound, "user_id", user.ID)
		return "", "", false
	}
	return user.ID, familyID, true
}
