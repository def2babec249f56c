package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/interface/repository/memory"
	"cpaptracker-service/internal/usecase"
	"cpaptracker-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify(ctx context.Context, partName string, days int, notificationID int) error {
	n.calls++
	return nil
}

type testEnv struct {
	router   *gin.Engine
	store    *memory.Store
	notifier *countingNotifier
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logger.NewNopLogger()
	tracker := usecase.NewPartTracker(store, store, store, store, log)
	_, err := tracker.SeedDefaultCatalog(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	notifier := &countingNotifier{}
	sweep := usecase.NewReminderSweep(store, notifier, store, nil, 7, log)
	exporter := usecase.NewInventoryExporter(tracker, log)

	h := NewHandler(tracker, sweep, exporter, store, 30, time.UTC, log)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	return &testEnv{
		router:   NewRouter(h, nil, log),
		store:    store,
		notifier: notifier,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp Response
	if w.Header().Get("Content-Type") != xlsxContentType && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (e *testEnv) partID(t *testing.T, name string) uint {
	parts, err := e.store.ListParts(context.Background())
	require.NoError(t, err)
	for _, p := range parts {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("part %q not seeded", name)
	return 0
}

func TestHealth(t *testing.T) {
	env := setupTest(t)
	w, _ := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Healthy", w.Body.String())
}

func TestStatus_AllUntrackedInitially(t *testing.T) {
	env := setupTest(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2024-01-01", data["today"])
	items := data["items"].([]interface{})
	require.Len(t, items, 7)
	for _, item := range items {
		assert.Equal(t, string(entity.StatusNotTracked), item.(map[string]interface{})["status"])
	}
}

func TestMarkReplacedThenStatus(t *testing.T) {
	env := setupTest(t)
	id := env.partID(t, "Mask Cushion")

	w, _ := env.do(t, http.MethodPost, "/api/v1/parts/"+itoa(id)+"/replaced", partEventRequest{Date: "2024-01-01", Notes: "new"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := env.do(t, http.MethodGet, "/api/v1/parts/"+itoa(id)+"?date=2024-01-24", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := resp.Data.(map[string]interface{})
	assert.Equal(t, string(entity.StatusDueSoon), view["status"])
	assert.EqualValues(t, 7, view["daysUntilReplacement"])

	w, resp = env.do(t, http.MethodGet, "/api/v1/upcoming?date=2024-01-24&days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestMarkReplaced_DefaultsToToday(t *testing.T) {
	env := setupTest(t)
	id := env.partID(t, "Standard Tubing")

	w, resp := env.do(t, http.MethodPost, "/api/v1/parts/"+itoa(id)+"/replaced", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	event := resp.Data.(map[string]interface{})
	assert.Contains(t, event["lastReplacedDate"], "2024-01-01")
	assert.Contains(t, event["nextReplacementDate"], "2024-03-31")
}

func TestErrorMapping(t *testing.T) {
	env := setupTest(t)
	id := env.partID(t, "Headgear")

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown part", http.MethodPost, "/api/v1/parts/999/replaced", partEventRequest{}, http.StatusNotFound},
		{"order without history", http.MethodPost, "/api/v1/parts/" + itoa(id) + "/ordered", partEventRequest{}, http.StatusConflict},
		{"bad id", http.MethodGet, "/api/v1/parts/abc", nil, http.StatusBadRequest},
		{"bad date", http.MethodGet, "/api/v1/status?date=01/02/2024", nil, http.StatusBadRequest},
		{"invalid interval", http.MethodPost, "/api/v1/parts", partRequest{Name: "Hose", Category: "TUBING"}, http.StatusBadRequest},
		{"unknown equipment", http.MethodGet, "/api/v1/equipment/77/parts", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status, resp.Code/100)
		})
	}

	events, err := env.store.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPartCRUD(t *testing.T) {
	env := setupTest(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/parts", partRequest{
		Name: "Chinstrap", Category: "chinstrap", RecommendedIntervalDays: 180,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(resp.Data.(map[string]interface{})["id"].(float64))
	assert.Equal(t, "CHINSTRAP", resp.Data.(map[string]interface{})["category"])

	w, _ = env.do(t, http.MethodPut, "/api/v1/parts/"+itoa(id), partRequest{
		Name: "Chinstrap", Category: "CHINSTRAP", RecommendedIntervalDays: 90,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/v1/parts/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/v1/parts/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitializeAndSweep(t *testing.T) {
	env := setupTest(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/parts/initialize?date=2024-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 7, resp.Data.(map[string]interface{})["initialized"])

	w, resp = env.do(t, http.MethodPost, "/api/v1/sweep?date=2024-01-28", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 2, result["notificationsSent"])
	assert.Equal(t, 2, env.notifier.calls)

	w, resp = env.do(t, http.MethodGet, "/api/v1/notifications?runId="+result["runId"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.(map[string]interface{})["items"], 2)
}

func TestEquipmentParts(t *testing.T) {
	env := setupTest(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/equipment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 2)

	for _, item := range items {
		eq := item.(map[string]interface{})
		w, resp := env.do(t, http.MethodGet, "/api/v1/equipment/"+itoa(uint(eq["id"].(float64)))+"/parts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, resp.Data.(map[string]interface{})["items"])
	}
}

func TestExport(t *testing.T) {
	env := setupTest(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/export?columns=name,status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cpap-parts-2024-01-01.xlsx")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(usecase.InventorySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 8)
	assert.Equal(t, []string{"Part", "Status"}, rows[0])

	w, _ = env.do(t, http.MethodGet, "/api/v1/export?columns=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}
