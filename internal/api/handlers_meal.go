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

// MealHandler is a thin HTTP transport over MealService.
type MealHandler struct {
	svc        *services.MealService
	authorizer auth.Authorizer
}

func NewMealHandler(svc *services.MealService, authorizer auth.Authorizer) *MealHandler {
	return &MealHandler{svc: svc, authorizer: authorizer}
}

func (h *MealHandler) authorize(w http.ResponseWriter, r *http.Request, operation string) (*auth.TenantInfo, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	info, err := h.authorizer.Authorize(r.Context(), token, operation, "meals")
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	return info, true
}

// CreateMeal POST /v0/meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "meal.create")
	if !ok {
		return
	}

	var req struct {
		Name          string   `json:"name"`
		Description   *string  `json:"description,omitempty"`
		IngredientIDs []string `json:"ingredientIds,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateMeal(req.Name, req.Description); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateMeal(r.Context(), &model.Meal{
		TenantID:      info.TenantID,
		Name:          req.Name,
		Description:   req.Description,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMeals GET /v0/meals
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "meal.read")
	if !ok {
		return
	}

	out, err := h.svc.ListMeals(r.Context(), info.TenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.Meal{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"meals": out, "count": len(out)})
}

// GetMeal GET /v0/meals/{mealId}
func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "meal.read")
	if !ok {
		return
	}

	out, err := h.svc.GetMeal(r.Context(), info.TenantID, mux.Vars(r)["mealId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteMeal DELETE /v0/meals/{mealId}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "meal.delete")
	if !ok {
		return
	}

	if err := h.svc.DeleteMeal(r.Context(), info.TenantID, mux.Vars(r)["mealId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
