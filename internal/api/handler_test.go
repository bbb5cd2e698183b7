package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/store"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingSource struct{}

func (failingSource) LoadSnapshot(context.Context, string) (wardrobe.Snapshot, error) {
	return wardrobe.Snapshot{}, errors.New("backend down")
}

func (failingSource) Health(context.Context) error { return errors.New("backend down") }

func newTestRouter(t *testing.T) (*gin.Engine, *store.DB) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	price := 60.0
	worn := testNow.AddDate(0, 0, -2)
	_, err = db.ImportFixture(ctx, "alex", &wardrobe.Fixture{
		Items: []wardrobe.Item{
			{ID: "jeans", Name: "Straight Jeans", Category: wardrobe.Bottoms, WearCount: 6,
				PurchasePrice: &price, LastWornAt: &worn, AddedAt: testNow.AddDate(0, -4, 0)},
			{ID: "scarf", Name: "Silk Scarf", Category: wardrobe.Accessories,
				AddedAt: testNow.AddDate(0, -5, 0)},
		},
		Plan: []wardrobe.DayPlan{
			{Day: "Monday", RecommendedOutfit: wardrobe.RecommendedOutfit{Name: "Easy", Items: []string{"jeans"}, Confidence: 75}},
		},
	})
	require.NoError(t, err)

	h := NewHandler(db, Options{Thresholds: suggest.DefaultThresholds(), Location: time.UTC, Version: "test"})
	h.now = func() time.Time { return testNow }
	return NewRouter(h), db
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetAnalytics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/alex/analytics")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res analyzer.AnalyticsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, 1, res.Categories.Bottoms)
	assert.Equal(t, 1, res.Time.WeeklyWorn)
	assert.True(t, res.ComputedAt.Equal(testNow))
	require.NotNil(t, res.Usage.CostPerWear.Average)
	assert.InDelta(t, 10.0, *res.Usage.CostPerWear.Average, 1e-9)
}

func TestGetAnalytics_AtOverride(t *testing.T) {
	router, _ := newTestRouter(t)

	// Ten days later the jeans fall out of the weekly window.
	at := testNow.AddDate(0, 0, 10).Format(time.RFC3339)
	w := get(t, router, "/api/users/alex/analytics?at="+at)
	require.Equal(t, http.StatusOK, w.Code)

	var res analyzer.AnalyticsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 0, res.Time.WeeklyWorn)
	assert.Equal(t, 1, res.Time.MonthlyWorn)

	w = get(t, router, "/api/users/alex/analytics?at=tomorrow")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalytics_UnknownUserIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/nobody/analytics")
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.EqualValues(t, 0, raw["total_items"])
	assert.Nil(t, raw["usage_stats"].(map[string]any)["repeat_percentage"])
}

func TestGetPlan(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/alex/plan")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		UserID string             `json:"user_id"`
		Stats  analyzer.PlanStats `json:"stats"`
		Days   []wardrobe.DayPlan `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "alex", res.UserID)
	assert.Equal(t, 1, res.Stats.DaysPlanned)
	require.NotNil(t, res.Stats.AverageConfidence)
	assert.Equal(t, 75.0, *res.Stats.AverageConfidence)
	require.Len(t, res.Days, 1)
}

func TestGetCharts(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/alex/charts")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Charts analyzer.ChartData `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Charts.Categories, 2)
	assert.Equal(t, "Bottoms", res.Charts.Categories[0].Name)
	assert.Equal(t, "#10b981", res.Charts.Categories[0].Fill)
	assert.Equal(t, "Straight Jea...", res.Charts.WearFrequency[0].Name)
	assert.Equal(t, 90.0, res.Charts.WearFrequency[0].Efficiency)
}

func TestGetSuggestions(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/alex/suggestions?limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Suggestions []suggest.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Suggestions, 1)

	w = get(t, router, "/api/users/alex/suggestions?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSourceFailure(t *testing.T) {
	h := NewHandler(failingSource{}, Options{Location: time.UTC})
	router := NewRouter(h)

	w := get(t, router, "/api/users/alex/analytics")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "backend down")

	w = get(t, router, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, w.Body.String())
}

func TestNoRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/users/alex/wishlist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"API endpoint not found"}`, w.Body.String())

	w = get(t, router, "/elsewhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/users/alex/analytics", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
