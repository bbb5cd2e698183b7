package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// WeeklyPlanResult is the weekly plan together with its summary.
type WeeklyPlanResult struct {
	UserID string             `json:"user_id"`
	Stats  analyzer.PlanStats `json:"stats"`
	Days   []wardrobe.DayPlan `json:"days"`
}

// SuggestionsResult holds ranked suggestions for a wardrobe.
type SuggestionsResult struct {
	UserID      string               `json:"user_id"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// ChartDataResult holds every chart series for a wardrobe.
type ChartDataResult struct {
	UserID string             `json:"user_id"`
	Charts analyzer.ChartData `json:"charts"`
}

// userArgs is accepted by every tool.
type userArgs struct {
	User string `json:"user,omitempty"`
	// At overrides "now" (RFC 3339).
	At    string `json:"at,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

var (
	userSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"user":{"type":"string","description":"Wardrobe owner (defaults to the configured user)"},` +
		`"at":{"type":"string","description":"Evaluate as of this RFC 3339 time instead of now"}},` +
		`"additionalProperties":false}`)
	suggestionsSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"user":{"type":"string","description":"Wardrobe owner (defaults to the configured user)"},` +
		`"at":{"type":"string","description":"Evaluate as of this RFC 3339 time instead of now"},` +
		`"limit":{"type":"integer","description":"Maximum suggestions to return (default all)"}},` +
		`"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "get_analytics",
		Description: "Full wardrobe analytics: categories, wear, time windows, usage, cost per wear, sustainability, weekly plan.",
		InputSchema: userSchema,
		Handler:     s.handleGetAnalytics,
	})
	s.registerTool(toolDef{
		Name:        "get_weekly_plan",
		Description: "The weekly outfit plan with days planned, confidence, versatile pieces and missing items.",
		InputSchema: userSchema,
		Handler:     s.handleGetWeeklyPlan,
	})
	s.registerTool(toolDef{
		Name:        "get_suggestions",
		Description: "Ranked suggestions for getting more out of the wardrobe.",
		InputSchema: suggestionsSchema,
		Handler:     s.handleGetSuggestions,
	})
	s.registerTool(toolDef{
		Name:        "get_chart_data",
		Description: "Chart series: category breakdown, wear frequency per item, usage trend buckets.",
		InputSchema: userSchema,
		Handler:     s.handleGetChartData,
	})
}

// load decodes the common arguments and reads the snapshot they name.
func (s *Server) load(ctx context.Context, raw json.RawMessage) (wardrobe.Snapshot, time.Time, userArgs, error) {
	var args userArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return wardrobe.Snapshot{}, time.Time{}, args, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.User == "" {
		args.User = s.user
	}

	now := s.now().In(s.loc)
	if args.At != "" {
		at, err := time.Parse(time.RFC3339, args.At)
		if err != nil {
			return wardrobe.Snapshot{}, time.Time{}, args, fmt.Errorf("invalid at %q: %w", args.At, err)
		}
		now = at.In(s.loc)
	}

	snap, err := s.source.LoadSnapshot(ctx, args.User)
	if err != nil {
		return wardrobe.Snapshot{}, time.Time{}, args, fmt.Errorf("loading wardrobe for %s: %w", args.User, err)
	}
	return snap, now, args, nil
}

func (s *Server) handleGetAnalytics(ctx context.Context, raw json.RawMessage) (any, error) {
	snap, now, _, err := s.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(snap, now), nil
}

func (s *Server) handleGetWeeklyPlan(ctx context.Context, raw json.RawMessage) (any, error) {
	snap, _, args, err := s.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	days := snap.Plan
	if days == nil {
		days = []wardrobe.DayPlan{}
	}
	return WeeklyPlanResult{
		UserID: args.User,
		Stats:  analyzer.AnalyzePlan(snap.Plan, snap.Items),
		Days:   days,
	}, nil
}

func (s *Server) handleGetSuggestions(ctx context.Context, raw json.RawMessage) (any, error) {
	snap, now, args, err := s.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	out := suggest.NewEngine().Run(suggest.NewContext(snap, now, s.thresholds))
	if args.Limit > 0 && len(out) > args.Limit {
		out = out[:args.Limit]
	}
	if out == nil {
		out = []suggest.Suggestion{}
	}
	return SuggestionsResult{UserID: args.User, Suggestions: out}, nil
}

func (s *Server) handleGetChartData(ctx context.Context, raw json.RawMessage) (any, error) {
	snap, _, args, err := s.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	return ChartDataResult{
		UserID: args.User,
		Charts: analyzer.BuildCharts(snap.Items, analyzer.AnalyzeCategories(snap.Items)),
	}, nil
}
