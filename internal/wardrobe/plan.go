package wardrobe

import "slices"

// DayPlan is the outfit plan for one calendar day.
type DayPlan struct {
	Day               string              `json:"day" yaml:"day"`
	Date              string              `json:"date" yaml:"date"`
	Weather           string              `json:"weather,omitempty" yaml:"weather,omitempty"`
	Schedule          []string            `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	RecommendedOutfit RecommendedOutfit   `json:"recommended_outfit" yaml:"recommended_outfit"`
	Alternatives      []AlternativeOutfit `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	WeatherConditions *WeatherConditions  `json:"weather_conditions,omitempty" yaml:"weather_conditions,omitempty"`
	CalendarEvents    []CalendarEvent     `json:"calendar_events,omitempty" yaml:"calendar_events,omitempty"`
}

// RecommendedOutfit is the primary suggestion for a day. Confidence is on a
// 0-100 scale and is produced outside this module; it is never recomputed.
type RecommendedOutfit struct {
	Name               string   `json:"name" yaml:"name"`
	Items              []string `json:"items" yaml:"items"`
	Confidence         float64  `json:"confidence" yaml:"confidence"`
	Reason             string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	AIGenerated        bool     `json:"ai_generated,omitempty" yaml:"ai_generated,omitempty"`
	CompatibilityScore *float64 `json:"compatibility_score,omitempty" yaml:"compatibility_score,omitempty"`
}

// AlternativeOutfit is a fallback outfit that swaps out one item of the
// recommended outfit.
type AlternativeOutfit struct {
	Name          string   `json:"name" yaml:"name"`
	Items         []string `json:"items" yaml:"items"`
	Confidence    float64  `json:"confidence" yaml:"confidence"`
	SubstituteFor string   `json:"substitute_for,omitempty" yaml:"substitute_for,omitempty"`
}

// WeatherConditions is the structured forecast behind the weather label.
type WeatherConditions struct {
	Temperature   float64  `json:"temperature" yaml:"temperature"`
	Condition     string   `json:"condition" yaml:"condition"`
	Humidity      *float64 `json:"humidity,omitempty" yaml:"humidity,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty" yaml:"precipitation,omitempty"`
}

// CalendarEvent is a scheduled event the outfit should suit.
type CalendarEvent struct {
	Title string `json:"title" yaml:"title"`
	Time  string `json:"time" yaml:"time"`
	Type  string `json:"type" yaml:"type"` // work, casual, formal, sport
}

func (d DayPlan) clone() DayPlan {
	out := d
	out.Schedule = slices.Clone(d.Schedule)
	out.RecommendedOutfit.Items = slices.Clone(d.RecommendedOutfit.Items)
	out.RecommendedOutfit.CompatibilityScore = clonePtr(d.RecommendedOutfit.CompatibilityScore)
	if d.Alternatives != nil {
		out.Alternatives = make([]AlternativeOutfit, len(d.Alternatives))
		for i, a := range d.Alternatives {
			a.Items = slices.Clone(a.Items)
			out.Alternatives[i] = a
		}
	}
	if d.WeatherConditions != nil {
		wc := *d.WeatherConditions
		wc.Humidity = clonePtr(wc.Humidity)
		wc.Precipitation = clonePtr(wc.Precipitation)
		out.WeatherConditions = &wc
	}
	out.CalendarEvents = slices.Clone(d.CalendarEvents)
	return out
}

// clonePtr returns a pointer to a copy of *p, or nil when p is nil.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
