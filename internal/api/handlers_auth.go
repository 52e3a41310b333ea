package api

import (
	"encoding/json"
	"net/http"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
	"github.com/denerose/VeganMealAppApi-sub001/internal/api/validate"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/services"
)

// AuthHandler is a thin HTTP transport over UserService. Its endpoints are
// the only ones that do not require a bearer token.
type AuthHandler struct {
	svc *services.UserService
}

func NewAuthHandler(svc *services.UserService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register POST /v0/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string  `json:"email"`
		Password     string  `json:"password"`
		DisplayName  *string `json:"displayName,omitempty"`
		WeekStartDay string  `json:"weekStartDay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.RegisterUser(req.Email, req.Password, req.DisplayName, req.WeekStartDay); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Register(r.Context(), req.Email, req.Password, req.DisplayName, model.WeekStartDay(req.WeekStartDay))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Login POST /v0/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.WriteBadRequest(w, "email and password are required")
		return
	}

	tok, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": tok,
		"user":        u,
	})
}
