package analyzer

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// Analyze computes every aggregate over snap as of now. The aggregators only
// read the snapshot and each writes its own result field, so they run
// concurrently without locking.
func Analyze(snap wardrobe.Snapshot, now time.Time) AnalyticsResult {
	items := snap.Items
	res := AnalyticsResult{
		TotalItems: len(items),
		ComputedAt: now,
	}

	var g errgroup.Group
	g.Go(func() error {
		res.Categories = AnalyzeCategories(items)
		return nil
	})
	g.Go(func() error {
		res.Wear = AnalyzeWear(items, now)
		return nil
	})
	g.Go(func() error {
		res.Time = AnalyzeTimeWindows(items, now)
		return nil
	})
	g.Go(func() error {
		res.Usage = AnalyzeUsage(items)
		return nil
	})
	g.Go(func() error {
		res.Sustainability = AnalyzeSustainability(items)
		return nil
	})
	g.Go(func() error {
		res.Plan = AnalyzePlan(snap.Plan, items)
		return nil
	})
	_ = g.Wait()

	return res
}
