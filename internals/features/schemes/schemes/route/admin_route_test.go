package route

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemetrack_backend/internals/features/schemes/schemes/repository"
	"schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	repo := repository.NewMemorySchemeRepository()
	svc := service.NewSchemeService(repo, nil, false)
	clock := dbtime.FixedClock(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	SchemeAdminRoutes(app.Group("/api/a"), svc, service.NewSweeper(repo, nil), 30, clock, nil)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createScheme(t *testing.T, app *fiber.App) map[string]any {
	t.Helper()
	code, env := call(t, app, http.MethodPost, "/api/a/schemes",
		`{"customer_name":"Ravi","customer_group_name":"Market","start_date":"2024-01-01","monthly_amount":"1000"}`)
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestSchemeRoutes_CreateAndRecordPayment(t *testing.T) {
	app := newTestApp(t)
	sc := createScheme(t, app)
	id := sc["scheme_id"].(string)

	assert.Len(t, sc["payments"], 12)
	assert.Equal(t, "12000", sc["total_remaining"])
	assert.Equal(t, "2024-12-01", sc["end_date"])

	code, env := call(t, app, http.MethodPut, "/api/a/schemes/"+id+"/payments/1",
		`{"amount_paid":"1000","payment_date":"2024-01-03","mode_of_payment":["cash"]}`)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "1000", got["total_collected"])
	assert.Equal(t, "11000", got["total_remaining"])

	code, env = call(t, app, http.MethodGet, "/api/a/schemes/"+id+"/events", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), "payment_recorded")
}

func TestSchemeRoutes_PaymentErrors(t *testing.T) {
	app := newTestApp(t)
	id := createScheme(t, app)["scheme_id"].(string)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"month out of range", "/payments/13", `{"amount_paid":"1000"}`, fiber.StatusNotFound},
		{"month not a number", "/payments/x", `{"amount_paid":"1000"}`, fiber.StatusBadRequest},
		{"zero amount", "/payments/1", `{"amount_paid":"0"}`, fiber.StatusUnprocessableEntity},
		{"unknown mode", "/payments/1", `{"amount_paid":"10","mode_of_payment":["bitcoin"]}`, fiber.StatusUnprocessableEntity},
		{"future date", "/payments/1", `{"amount_paid":"10","payment_date":"2024-04-01"}`, fiber.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := call(t, app, http.MethodPut, "/api/a/schemes/"+id+tc.path, tc.body)
			assert.Equal(t, tc.want, code, env.Message)
			assert.False(t, env.Success)
		})
	}
}

func TestSchemeRoutes_LifecycleAndDelete(t *testing.T) {
	app := newTestApp(t)
	id := createScheme(t, app)["scheme_id"].(string)
	base := "/api/a/schemes/" + id

	code, _ := call(t, app, http.MethodDelete, base, "")
	assert.Equal(t, fiber.StatusConflict, code, "only trashed schemes can be deleted")

	code, _ = call(t, app, http.MethodPost, base+"/close", `{"closure_date":"2024-03-01"}`)
	require.Equal(t, fiber.StatusOK, code)

	code, env := call(t, app, http.MethodPut, base+"/payments/2", `{"amount_paid":"1000"}`)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.ErrorCode)

	code, _ = call(t, app, http.MethodPost, base+"/trash", "")
	require.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, http.MethodDelete, base, "")
	require.Equal(t, fiber.StatusOK, code)

	code, env = call(t, app, http.MethodGet, base, "")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)
}

func TestSchemeRoutes_ListAndValidation(t *testing.T) {
	app := newTestApp(t)
	createScheme(t, app)

	code, env := call(t, app, http.MethodGet, "/api/a/schemes?status=overdue&group=MARKET", "")
	require.Equal(t, fiber.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = call(t, app, http.MethodGet, "/api/a/schemes?status=bogus", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "status")

	code, _ = call(t, app, http.MethodGet, "/api/a/schemes/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env = call(t, app, http.MethodPost, "/api/a/schemes", `{"customer_name":"","start_date":"01/01/2024","monthly_amount":"10"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "customer_name")
	assert.Contains(t, env.Errors, "start_date")

	code, _ = call(t, app, http.MethodPost, "/api/a/schemes",
		`{"customer_name":"A","start_date":"2024-01-01","monthly_amount":"10","duration_months":6}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestSchemeRoutes_DashboardAndSweep(t *testing.T) {
	app := newTestApp(t)
	createScheme(t, app)

	code, env := call(t, app, http.MethodGet, "/api/a/dashboard", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Success)

	code, env = call(t, app, http.MethodPost, "/api/a/schemes/archive-sweep?grace_days=0", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"archived_count":0`)

	code, _ = call(t, app, http.MethodPost, "/api/a/schemes/archive-sweep?grace_days=-1", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}
