package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
	"github.com/denerose/VeganMealAppApi-sub001/internal/api/validate"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/planner"
	"github.com/denerose/VeganMealAppApi-sub001/internal/services"
)

// PlanHandler is a thin HTTP transport over PlanService. The tenant id always
// comes from the authorizer; the request body never names a tenant.
type PlanHandler struct {
	svc        *services.PlanService
	authorizer auth.Authorizer
}

func NewPlanHandler(svc *services.PlanService, authorizer auth.Authorizer) *PlanHandler {
	return &PlanHandler{svc: svc, authorizer: authorizer}
}

func (h *PlanHandler) authorize(w http.ResponseWriter, r *http.Request, operation string) (*auth.TenantInfo, bool) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	info, err := h.authorizer.Authorize(r.Context(), token, operation, "plans")
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	return info, true
}

// CreatePlan POST /v0/plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.create")
	if !ok {
		return
	}

	var req struct {
		StartingDate string `json:"startingDate"`
		WeekStartDay string `json:"weekStartDay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreatePlan(req.StartingDate); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.WeekStartDay(req.WeekStartDay); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreatePlan(r.Context(), info.TenantID, req.StartingDate, model.WeekStartDay(req.WeekStartDay))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListPlans GET /v0/plans?from=&to=&limit=&offset=
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.read")
	if !ok {
		return
	}

	q := r.URL.Query()
	req := model.ListPlansRequest{TenantID: info.TenantID, From: q.Get("from"), To: q.Get("to")}
	for _, bound := range []struct {
		field string
		value string
	}{{"from", req.From}, {"to", req.To}} {
		if bound.value == "" {
			continue
		}
		if err := validate.Date(bound.field, bound.value); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteBadRequest(w, "offset must be a non-negative integer")
			return
		}
		req.Offset = n
	}

	out, err := h.svc.ListPlans(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.WeeklyPlan{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"plans": out, "count": len(out)})
}

// GetPlan GET /v0/plans/{planId}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.read")
	if !ok {
		return
	}

	out, err := h.svc.GetPlan(r.Context(), info.TenantID, mux.Vars(r)["planId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeletePlan DELETE /v0/plans/{planId}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.delete")
	if !ok {
		return
	}

	if err := h.svc.DeletePlan(r.Context(), info.TenantID, mux.Vars(r)["planId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDayPlan GET /v0/plans/{planId}/days/{date}
func (h *PlanHandler) GetDayPlan(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.read")
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := validate.Date("date", vars["date"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.GetDayPlan(r.Context(), info.TenantID, vars["planId"], vars["date"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// AssignMeal PUT /v0/plans/{planId}/days/{date}/meals/{slot}
func (h *PlanHandler) AssignMeal(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.update")
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := validate.Date("date", vars["date"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	slot, err := validate.Slot(vars["slot"])
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req struct {
		MealID     string `json:"mealId"`
		MakesLunch bool   `json:"makesLunch,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.MealID == "" {
		respond.WriteBadRequest(w, "mealId is required")
		return
	}

	out, err := h.svc.AssignMeal(r.Context(), info.TenantID, vars["planId"], vars["date"], slot, planner.Assignment{
		MealID:     req.MealID,
		MakesLunch: req.MakesLunch,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// RemoveMeal DELETE /v0/plans/{planId}/days/{date}/meals/{slot}
func (h *PlanHandler) RemoveMeal(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.update")
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := validate.Date("date", vars["date"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	slot, err := validate.Slot(vars["slot"])
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.RemoveMeal(r.Context(), info.TenantID, vars["planId"], vars["date"], slot)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// PopulateLeftovers POST /v0/plans/{planId}/leftovers
func (h *PlanHandler) PopulateLeftovers(w http.ResponseWriter, r *http.Request) {
	info, ok := h.authorize(w, r, "plan.update")
	if !ok {
		return
	}

	out, err := h.svc.PopulateLeftovers(r.Context(), info.TenantID, mux.Vars(r)["planId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
