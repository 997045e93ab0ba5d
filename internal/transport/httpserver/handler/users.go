package handler

import (
	"net/http"
	"time"

	userdomain "family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/transport/httpserver/middleware"
)

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	FamilyID  *string   `json:"family_id"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		FamilyID:  u.FamilyID,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "PONG")
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	created, err := h.Users.Signup(r.Context(), userdomain.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeDomainError(w, h.requestLog(r), "users.signup", err, "email", req.Email)
		return
	}

	h.requestLog(r).Info("users.signup: user created", "user_id", created.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// Login follows the OAuth2 password flow: a form with username (the
// email) and password.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "invalid form body")
		return
	}

	result, err := h.Users.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeDomainError(w, h.requestLog(r), "login.access_token", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: result.AccessToken, TokenType: result.TokenType})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) PromoteMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	targetID, ok := pathID(r, "user_id")
	if !ok {
		writeDomainError(w, h.requestLog(r), "users.promote", userdomain.ErrUserNotFound, "user_id", user.ID)
		return
	}

	promoted, err := h.Families.PromoteMember(r.Context(), user.ID, targetID)
	if err != nil {
		writeDomainError(w, h.requestLog(r), "users.promote", err, "user_id", user.ID, "target_id", targetID)
		return
	}

	h.requestLog(r).Info("users.promote: admin transferred", "user_id", user.ID, "target_id", targetID)
	writeJSON(w, http.StatusOK, toUserResponse(promoted))
}
