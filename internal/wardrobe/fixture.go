package wardrobe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk interchange format for a wardrobe: a list of items
// and an optional weekly plan. Both JSON and YAML encodings are accepted.
type Fixture struct {
	User  string    `json:"user,omitempty" yaml:"user,omitempty"`
	Items []Item    `json:"items" yaml:"items"`
	Plan  []DayPlan `json:"weekly_plan,omitempty" yaml:"weekly_plan,omitempty"`
}

// NewFixture returns a fixture holding a deep copy of snap's items and plan.
func NewFixture(snap Snapshot) *Fixture {
	cp := snap.Clone()
	return &Fixture{User: cp.UserID, Items: cp.Items, Plan: cp.Plan}
}

// LoadFixture reads a wardrobe fixture. Files ending in .yaml or .yml are
// decoded as YAML; everything else as JSON.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data, isYAML(path))
}

// ParseFixture decodes fixture bytes.
func ParseFixture(data []byte, asYAML bool) (*Fixture, error) {
	var fx Fixture
	if asYAML {
		if err := yaml.Unmarshal(data, &fx); err != nil {
			return nil, fmt.Errorf("decoding yaml fixture: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &fx); err != nil {
			return nil, fmt.Errorf("decoding json fixture: %w", err)
		}
	}

	for i, it := range fx.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("item %d: missing name", i)
		}
		if it.AddedAt.IsZero() {
			return nil, fmt.Errorf("item %d (%s): missing added_at", i, it.Name)
		}
		if it.PurchasePrice != nil && !FiniteAmount(*it.PurchasePrice) {
			return nil, fmt.Errorf("item %d (%s): purchase price %v is not a finite amount", i, it.Name, *it.PurchasePrice)
		}
	}
	return &fx, nil
}

// WriteFixture encodes fx to path, choosing the encoding from the extension.
func WriteFixture(path string, fx *Fixture) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(fx)
	} else {
		data, err = json.MarshalIndent(fx, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
