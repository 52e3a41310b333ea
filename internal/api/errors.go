package api

import (
	"errors"
	"net/http"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/planner"
)

// writeServiceError translates service and domain errors into HTTP status
// codes. Anything unclassified is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, planner.ErrDayNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, planner.ErrInvalidDate),
		errors.Is(err, planner.ErrMisalignedWeekStart):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		respond.WriteUnauthorized(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
