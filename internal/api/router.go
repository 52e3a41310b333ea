package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	apimetrics "github.com/denerose/VeganMealAppApi-sub001/internal/api/metrics"
	"github.com/denerose/VeganMealAppApi-sub001/internal/api/ratelimit"
	"github.com/denerose/VeganMealAppApi-sub001/internal/api/recovery"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/services"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// RouterDeps carries everything the router needs. UserService is injected
// because it owns the token issuer and mailer; the catalog and plan services
// are constructed here from the store.
type RouterDeps struct {
	Store      store.Store
	Authorizer auth.Authorizer
	Users      *services.UserService

	// Optional middlewares; nil disables the concern.
	Metrics  *apimetrics.Collector
	Gatherer prometheus.Gatherer
	Limiter  *ratelimit.Limiter
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares. Recovery wraps everything, metrics observes the
	// final status, the rate limiter rejects before any handler work.
	router.Use(recovery.Middleware)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware)
	}

	planService := services.NewPlanService(deps.Store)
	mealService := services.NewMealService(deps.Store)
	ingredientService := services.NewIngredientService(deps.Store)

	healthHandler := NewHealthHandler()
	authHandler := NewAuthHandler(deps.Users)
	planHandler := NewPlanHandler(planService, deps.Authorizer)
	mealHandler := NewMealHandler(mealService, deps.Authorizer)
	ingredientHandler := NewIngredientHandler(ingredientService, deps.Authorizer)

	// Health and metrics endpoints
	router.HandleFunc("/v0/health", healthHandler.CheckHealth).Methods("GET")
	if deps.Gatherer != nil {
		router.Handle("/metrics", apimetrics.Handler(deps.Gatherer)).Methods("GET")
	}

	// Auth endpoints (no bearer token)
	router.HandleFunc("/v0/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/v0/auth/login", authHandler.Login).Methods("POST")

	// Ingredient catalog endpoints
	router.HandleFunc("/v0/ingredients", ingredientHandler.CreateIngredient).Methods("POST")
	router.HandleFunc("/v0/ingredients", ingredientHandler.ListIngredients).Methods("GET")
	router.HandleFunc("/v0/ingredients/{ingredientId}", ingredientHandler.GetIngredient).Methods("GET")
	router.HandleFunc("/v0/ingredients/{ingredientId}", ingredientHandler.DeleteIngredient).Methods("DELETE")

	// Meal catalog endpoints
	router.HandleFunc("/v0/meals", mealHandler.CreateMeal).Methods("POST")
	router.HandleFunc("/v0/meals", mealHandler.ListMeals).Methods("GET")
	router.HandleFunc("/v0/meals/{mealId}", mealHandler.GetMeal).Methods("GET")
	router.HandleFunc("/v0/meals/{mealId}", mealHandler.DeleteMeal).Methods("DELETE")

	// Weekly plan endpoints
	router.HandleFunc("/v0/plans", planHandler.CreatePlan).Methods("POST")
	router.HandleFunc("/v0/plans", planHandler.ListPlans).Methods("GET")
	router.HandleFunc("/v0/plans/{planId}", planHandler.GetPlan).Methods("GET")
	router.HandleFunc("/v0/plans/{planId}", planHandler.DeletePlan).Methods("DELETE")
	router.HandleFunc("/v0/plans/{planId}/days/{date}", planHandler.GetDayPlan).Methods("GET")
	router.HandleFunc("/v0/plans/{planId}/days/{date}/meals/{slot}", planHandler.AssignMeal).Methods("PUT")
	router.HandleFunc("/v0/plans/{planId}/days/{date}/meals/{slot}", planHandler.RemoveMeal).Methods("DELETE")
	router.HandleFunc("/v0/plans/{planId}/leftovers", planHandler.PopulateLeftovers).Methods("POST")

	return router
}
