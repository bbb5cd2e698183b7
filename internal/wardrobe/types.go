// Package wardrobe provides the domain types for a user's garments and weekly
// outfit plan, plus loaders for wardrobe fixture files.
package wardrobe

import (
	"context"
	"math"
	"slices"
	"time"
)

// SourceType records how an item entered the wardrobe.
type SourceType string

const (
	SourceCatalog      SourceType = "CATALOG"
	SourceUserUploaded SourceType = "USER_UPLOADED"
)

// Item is a single owned or uploaded garment.
type Item struct {
	ID               string     `json:"id" yaml:"id"`
	UserID           string     `json:"user_id" yaml:"user_id"`
	Name             string     `json:"name" yaml:"name"`
	Category         Category   `json:"category" yaml:"category"`
	Color            string     `json:"color,omitempty" yaml:"color,omitempty"`
	Brand            string     `json:"brand,omitempty" yaml:"brand,omitempty"`
	Tags             []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	SourceType       SourceType `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	PurchasePrice    *float64   `json:"purchase_price,omitempty" yaml:"purchase_price,omitempty"`
	PurchaseCurrency string     `json:"purchase_currency,omitempty" yaml:"purchase_currency,omitempty"`
	WearCount        int        `json:"wear_count" yaml:"wear_count"`
	LastWornAt       *time.Time `json:"last_worn_at,omitempty" yaml:"last_worn_at,omitempty"`
	AddedAt          time.Time  `json:"added_at" yaml:"added_at"`
}

// FiniteAmount reports whether v is neither NaN nor infinite.
func FiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Price returns the purchase price. A missing or non-finite price counts as
// zero.
func (it Item) Price() float64 {
	if it.PurchasePrice == nil || !FiniteAmount(*it.PurchasePrice) {
		return 0
	}
	return *it.PurchasePrice
}

// HasPrice reports whether the item carries a finite, non-zero purchase
// price.
func (it Item) HasPrice() bool {
	return it.Price() != 0
}

// DaysSinceAdded returns the age of the item at now in 24h units.
func (it Item) DaysSinceAdded(now time.Time) float64 {
	return now.Sub(it.AddedAt).Hours() / 24
}

// WornSince reports whether the item was last worn at or after cutoff.
func (it Item) WornSince(cutoff time.Time) bool {
	return it.LastWornAt != nil && !it.LastWornAt.Before(cutoff)
}

// Snapshot is the complete set of a user's items and weekly plan at a point
// in time. The analytics engine treats it as an immutable value.
type Snapshot struct {
	UserID  string    `json:"user_id"`
	TakenAt time.Time `json:"taken_at"`
	Items   []Item    `json:"items"`
	Plan    []DayPlan `json:"weekly_plan"`
}

// Clone returns a deep copy so callers can hold the snapshot while the
// underlying store keeps changing.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{UserID: s.UserID, TakenAt: s.TakenAt}
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = it.clone()
		}
	}
	if s.Plan != nil {
		out.Plan = make([]DayPlan, len(s.Plan))
		for i, d := range s.Plan {
			out.Plan[i] = d.clone()
		}
	}
	return out
}

// ItemByID returns the item with the given id, or false.
func (s Snapshot) ItemByID(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (it Item) clone() Item {
	out := it
	out.Tags = slices.Clone(it.Tags)
	out.PurchasePrice = clonePtr(it.PurchasePrice)
	out.LastWornAt = clonePtr(it.LastWornAt)
	return out
}

// Source supplies a consistent snapshot of one user's wardrobe.
type Source interface {
	LoadSnapshot(ctx context.Context, userID string) (Snapshot, error)
}
