package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apimetrics "github.com/denerose/VeganMealAppApi-sub001/internal/api/metrics"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/mail"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/services"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store/sqlite"
)

const testJWTSecret = "api-test-secret"

// newTestServer builds an httptest server over an in-memory sqlite store.
// The mock authorizer recognizes auth.LocalDevToken only.
func newTestServer(t *testing.T, authorizer auth.Authorizer) *httptest.Server {
	t.Helper()

	st, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)

	issuer := auth.NewTokenIssuer(testJWTSecret, 15*time.Minute)
	users := services.NewUserService(st, issuer, mail.Noop{}, zerolog.Nop())

	reg := prometheus.NewRegistry()
	router := NewRouter(RouterDeps{
		Store:      st,
		Authorizer: authorizer,
		Users:      users,
		Metrics:    apimetrics.NewCollector(reg),
		Gatherer:   reg,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]interface{}
	if resp.ContentLength != 0 && resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func createMeal(t *testing.T, base, token, name string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/v0/meals", token, map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["mealId"].(string)
}

func createPlan(t *testing.T, base, token, startingDate, weekStartDay string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/v0/plans", token, map[string]interface{}{
		"startingDate": startingDate,
		"weekStartDay": weekStartDay,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["planId"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())

	BindServiceHealth(func() bool { return true })
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v0/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	BindServiceHealth(func() bool { return false })
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v0/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v0/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v0/plans", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	// JWT authorizer so tokens issued by login are honored downstream.
	srv := newTestServer(t, auth.NewJWTAuthorizer(testJWTSecret))

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v0/auth/register", "", map[string]interface{}{
		"email":        "alice@example.com",
		"password":     "s3cret-pass",
		"weekStartDay": "MONDAY",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["tenantId"])
	assert.Nil(t, body["passwordHash"], "hash must never leave the server")

	// Duplicate email.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/auth/register", "", map[string]interface{}{
		"email":        "alice@example.com",
		"password":     "s3cret-pass",
		"weekStartDay": "MONDAY",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v0/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	// Wrong password.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The issued token drives the full plan lifecycle.
	mealID := createMeal(t, srv.URL, token, "Chickpea curry")
	planID := createPlan(t, srv.URL, token, "2024-01-01", "MONDAY")

	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-01/meals/dinner", srv.URL, planID), token, map[string]interface{}{
		"mealId":     mealID,
		"makesLunch": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlanLifecycle(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())
	token := auth.LocalDevToken

	mealID := createMeal(t, srv.URL, token, "Chickpea curry")
	planID := createPlan(t, srv.URL, token, "2024-01-01", "MONDAY")

	// Duplicate week.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v0/plans", token, map[string]interface{}{
		"startingDate": "2024-01-01",
		"weekStartDay": "MONDAY",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Misaligned start.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/plans", token, map[string]interface{}{
		"startingDate": "2024-01-03",
		"weekStartDay": "MONDAY",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Assign dinner, derive leftovers, read day back.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-01/meals/dinner", srv.URL, planID), token, map[string]interface{}{
		"mealId":     mealID,
		"makesLunch": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v0/plans/%s/leftovers", srv.URL, planID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	days := body["dayPlans"].([]interface{})
	tue := days[1].(map[string]interface{})
	assert.Equal(t, mealID, tue["lunchMealId"])
	assert.Equal(t, true, tue["isLeftover"])

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-02", srv.URL, planID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tuesday", body["longDay"])
	assert.Equal(t, mealID, body["lunchMealId"])

	// Unknown date within route shape but outside the week.
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v0/plans/%s/days/2024-02-01", srv.URL, planID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown slot.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-01/meals/brunch", srv.URL, planID), token, map[string]interface{}{"mealId": mealID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown meal.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-01/meals/lunch", srv.URL, planID), token, map[string]interface{}{"mealId": "no-such-meal"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Remove the dinner; list; delete the plan.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/v0/plans/%s/days/2024-01-01/meals/dinner", srv.URL, planID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v0/plans?from=2024-01-01&to=2024-12-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v0/plans/"+planID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v0/plans/"+planID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())
	token := auth.LocalDevToken

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v0/ingredients", token, map[string]interface{}{"name": "Chickpeas"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ingredientID := body["ingredientId"].(string)

	// Meals referencing a missing ingredient are rejected.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/meals", token, map[string]interface{}{
		"name":          "Chickpea curry",
		"ingredientIds": []string{"no-such-ingredient"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v0/meals", token, map[string]interface{}{
		"name":          "Chickpea curry",
		"ingredientIds": []string{ingredientID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mealID := body["mealId"].(string)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v0/meals", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v0/meals/"+mealID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Duplicate ingredient name within the tenant.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/ingredients", token, map[string]interface{}{"name": "Chickpeas"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Invalid name.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v0/ingredients", token, map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v0/ingredients/"+ingredientID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v0/ingredients/"+ingredientID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())

	_, _ = doJSON(t, http.MethodGet, srv.URL+"/v0/health", "", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "mealplan_http_requests_total")
}

func TestModelJSONShape(t *testing.T) {
	srv := newTestServer(t, auth.NewMockAuthorizer())
	token := auth.LocalDevToken

	planID := createPlan(t, srv.URL, token, "2024-01-01", "MONDAY")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v0/plans/"+planID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-01-01", body["startingDate"])
	assert.Equal(t, "MONDAY", body["weekStartDay"])
	assert.Equal(t, auth.LocalDevTenantID, body["tenantId"])
	require.Len(t, body["dayPlans"], 7)

	var wp model.WeeklyPlan
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &wp))
	assert.Equal(t, "Monday", wp.DayPlans[0].LongDay)
	assert.Equal(t, "Mon", wp.DayPlans[0].ShortDay)
}
