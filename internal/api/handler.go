// Package api serves wardrobe analytics over HTTP.
package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blackwell-systems/closetwatch/internal/analyzer"
	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Options configures a Handler.
type Options struct {
	Thresholds suggest.Thresholds
	// Location is where "now" is evaluated; nil means time.Local.
	Location *time.Location
	Version  string
}

// Handler answers API requests from a wardrobe Source.
type Handler struct {
	source     wardrobe.Source
	thresholds suggest.Thresholds
	loc        *time.Location
	version    string
	now        func() time.Time
}

// healthChecker is implemented by sources that can ping their backend.
type healthChecker interface {
	Health(ctx context.Context) error
}

// NewHandler creates a Handler reading from source.
func NewHandler(source wardrobe.Source, opts Options) *Handler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		source:     source,
		thresholds: opts.Thresholds,
		loc:        loc,
		version:    opts.Version,
		now:        time.Now,
	}
}

// SetupRoutes registers every API route on router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	api := router.Group("/api/users/:userId")
	{
		api.GET("/analytics", h.GetAnalytics)
		api.GET("/plan", h.GetPlan)
		api.GET("/charts", h.GetCharts)
		api.GET("/suggestions", h.GetSuggestions)
	}
}

// Health reports liveness and, when the source supports it, backend health.
func (h *Handler) Health(c *gin.Context) {
	if hc, ok := h.source.(healthChecker); ok {
		if err := hc.Health(c.Request.Context()); err != nil {
			log.Printf("health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// GetAnalytics returns the full analytics result for a user.
func (h *Handler) GetAnalytics(c *gin.Context) {
	snap, now, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analyzer.Analyze(snap, now))
}

// GetPlan returns the weekly plan with its summary.
func (h *Handler) GetPlan(c *gin.Context) {
	snap, _, ok := h.load(c)
	if !ok {
		return
	}
	days := snap.Plan
	if days == nil {
		days = []wardrobe.DayPlan{}
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": snap.UserID,
		"stats":   analyzer.AnalyzePlan(snap.Plan, snap.Items),
		"days":    days,
	})
}

// GetCharts returns every chart series.
func (h *Handler) GetCharts(c *gin.Context) {
	snap, _, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": snap.UserID,
		"charts":  analyzer.BuildCharts(snap.Items, analyzer.AnalyzeCategories(snap.Items)),
	})
}

// GetSuggestions returns ranked suggestions, optionally capped by ?limit=.
func (h *Handler) GetSuggestions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	snap, now, ok := h.load(c)
	if !ok {
		return
	}
	out := suggest.NewEngine().Run(suggest.NewContext(snap, now, h.thresholds))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []suggest.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"user_id": snap.UserID, "suggestions": out})
}

// load resolves the request time and the user's snapshot. On failure it has
// already written the error response.
func (h *Handler) load(c *gin.Context) (wardrobe.Snapshot, time.Time, bool) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return wardrobe.Snapshot{}, time.Time{}, false
	}

	now := h.now().In(h.loc)
	if raw := c.Query("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid at: want RFC 3339"})
			return wardrobe.Snapshot{}, time.Time{}, false
		}
		now = at.In(h.loc)
	}

	snap, err := h.source.LoadSnapshot(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error loading wardrobe for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wardrobe"})
		return wardrobe.Snapshot{}, time.Time{}, false
	}
	if snap.UserID == "" {
		snap.UserID = userID
	}
	return snap, now, true
}
