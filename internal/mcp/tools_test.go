package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func sampleServer() *Server {
	price := 120.0
	src := memSource{
		"alex": {
			Items: []wardrobe.Item{
				{ID: "coat", Name: "Wool Overcoat", Category: wardrobe.Outerwear, WearCount: 4,
					PurchasePrice: &price, AddedAt: testNow.AddDate(0, -3, 0)},
				{ID: "tee", Name: "White Tee", Category: wardrobe.Tops, WearCount: 0,
					AddedAt: testNow.AddDate(0, -2, 0)},
			},
			Plan: []wardrobe.DayPlan{{
				Day: "Monday",
				RecommendedOutfit: wardrobe.RecommendedOutfit{
					Name: "Commute", Items: []string{"coat", "tee", "ghost"}, Confidence: 80,
				},
			}},
		},
	}
	s := NewServer(src, Options{User: "alex", Version: "test", Thresholds: suggest.DefaultThresholds(), Location: time.UTC})
	s.now = func() time.Time { return testNow }
	return s
}

func callTool(t *testing.T, s *Server, name, args string) (json.RawMessage, bool) {
	t.Helper()
	sendLine, cleanup := runServer(t, s)
	defer cleanup()

	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		"params": map[string]any{"name": name, "arguments": json.RawMessage(args)},
	})
	require.NoError(t, err)

	var parsed struct {
		Result callResult `json:"result"`
	}
	resp := sendLine(string(req))
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed), resp)
	require.Len(t, parsed.Result.Content, 1)
	return json.RawMessage(parsed.Result.Content[0].Text), parsed.Result.IsError
}

func TestGetAnalytics_DefaultUser(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_analytics", `{}`)
	require.False(t, isErr, string(text))

	var res analyzer.AnalyticsResult
	require.NoError(t, json.Unmarshal(text, &res))
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, 1, res.Usage.NeverWorn)
	require.NotNil(t, res.Usage.CostPerWear.Average)
	assert.InDelta(t, 30.0, *res.Usage.CostPerWear.Average, 1e-9)
	assert.True(t, res.ComputedAt.Equal(testNow))
}

func TestGetAnalytics_UnknownUserIsEmpty(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_analytics", `{"user":"nobody"}`)
	require.False(t, isErr, string(text))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(text, &raw))
	assert.EqualValues(t, 0, raw["total_items"])
	wear := raw["wear_stats"].(map[string]any)
	assert.Nil(t, wear["average_wear"], "undefined averages serialize as null")
}

func TestGetAnalytics_InvalidAt(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_analytics", `{"at":"yesterday"}`)
	assert.True(t, isErr)
	assert.Contains(t, string(text), "invalid at")
}

func TestGetWeeklyPlan(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_weekly_plan", `{}`)
	require.False(t, isErr, string(text))

	var res WeeklyPlanResult
	require.NoError(t, json.Unmarshal(text, &res))
	assert.Equal(t, "alex", res.UserID)
	assert.Equal(t, 1, res.Stats.DaysPlanned)
	assert.Equal(t, []string{"ghost"}, res.Stats.MissingItems)
	require.Len(t, res.Days, 1)
	assert.Equal(t, "Commute", res.Days[0].RecommendedOutfit.Name)
}

func TestGetSuggestions_Limit(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_suggestions", `{"limit":1}`)
	require.False(t, isErr, string(text))

	var res SuggestionsResult
	require.NoError(t, json.Unmarshal(text, &res))
	require.Len(t, res.Suggestions, 1)
	assert.NotEmpty(t, res.Suggestions[0].Title)

	text, _ = callTool(t, sampleServer(), "get_suggestions", `{}`)
	require.NoError(t, json.Unmarshal(text, &res))
	assert.Greater(t, len(res.Suggestions), 1)
}

func TestGetChartData(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_chart_data", `{}`)
	require.False(t, isErr, string(text))

	var res ChartDataResult
	require.NoError(t, json.Unmarshal(text, &res))
	require.Len(t, res.Charts.Categories, 2)
	assert.Equal(t, "Tops", res.Charts.Categories[0].Name)
	require.Len(t, res.Charts.WearFrequency, 2)
	assert.Equal(t, "Wool Overcoa...", res.Charts.WearFrequency[0].Name)
	assert.Len(t, res.Charts.UsageTrend, 4)
}

func TestToolsCall_UnknownTool(t *testing.T) {
	text, isErr := callTool(t, sampleServer(), "get_weather", `{}`)
	assert.True(t, isErr)
	assert.Contains(t, string(text), "unknown tool")
}

func TestToolsCall_RejectsBadArguments(t *testing.T) {
	_, err := sampleServer().handleGetAnalytics(context.Background(), json.RawMessage(`[1,2]`))
	assert.ErrorContains(t, err, "invalid arguments")
}
