package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
	"github.com/denerose/VeganMealAppApi-sub001/internal/api/validate"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/services"
)

// IngredientHandler is a thin HTTP transport over IngredientService.
type IngredientHandler struct {
	svc        *services.IngredientService
	authorizer auth.Authorizer
}

func NewIngredientHandler(svc *services.IngredientService, authorizer auth.Authorizer) *IngredientHandler {
	return &IngredientHandler{svc: svc, authorizer: authorizer}
}

func (h *IngredientHandler) authorize(w http.ResponseWriter, r *http.Request, operation string) (*auth.TenantInfo, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	info, err := h.authorizer.Authorize(r.Context(), token, operation, "ingredients")
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	return info, true
}

// CreateIngredient POST /v0/ingredients
func (h *IngredientHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "ingredient.create")
	if !ok {
		return
	}

	var req struct {
		Name  string  `json:"name"`
		Notes *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateIngredient(req.Name, req.Notes); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateIngredient(r.Context(), &model.Ingredient{
		TenantID: info.TenantID,
		Name:     req.Name,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListIngredients GET /v0/ingredients
func (h *IngredientHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "ingredient.read")
	if !ok {
		return
	}

	out, err := h.svc.ListIngredients(r.Context(), info.TenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.Ingredient{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ingredients": out, "count": len(out)})
}

// GetIngredient GET /v0/ingredients/{ingredientId}
func (h *IngredientHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "ingredient.read")
	if !ok {
		return
	}

	out, err := h.svc.GetIngredient(r.Context(), info.TenantID, mux.Vars(r)["ingredientId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteIngredient DELETE /v0/ingredients/{ingredientId}
func (h *IngredientHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "ingredient.delete")
	if !ok {
		return
	}

	if err := h.svc.DeleteIngredient(r.Context(), info.TenantID, mux.Vars(r)["ingredientId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
