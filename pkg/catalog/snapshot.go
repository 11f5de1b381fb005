package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Tables holds the rows of every table kind in upstream order.
type Tables struct {
	Models             []Model         `json:"models" validate:"dive"`
	Variants           []Variant       `json:"variants" validate:"dive"`
	Colors             []Color         `json:"colors" validate:"dive"`
	Components         []Component     `json:"components" validate:"dive"`
	Pricing            []PricingRule   `json:"pricing" validate:"dive"`
	InsuranceProviders []Provider      `json:"insurance_providers" validate:"dive"`
	InsurancePlans     []InsurancePlan `json:"insurance_plans" validate:"dive"`
	FinanceProviders   []Provider      `json:"finance_providers" validate:"dive"`
	FinanceOptions     []FinanceOption `json:"finance_options" validate:"dive"`
}

// RowCount returns the total number of rows across all tables.
func (t *Tables) RowCount() int {
	return len(t.Models) + len(t.Variants) + len(t.Colors) + len(t.Components) +
		len(t.Pricing) + len(t.InsuranceProviders) + len(t.InsurancePlans) +
		len(t.FinanceProviders) + len(t.FinanceOptions)
}

// Snapshot is a frozen copy of all catalog tables at one point in time.
// Callers must treat it as read-only.
type Snapshot struct {
	// Version identifies the load that produced this snapshot.
	Version string `json:"version"`

	// LoadedAt is when the loader finished producing the tables.
	LoadedAt time.Time `json:"loaded_at"`

	// Source names the loader (webhook, sql, xlsx, mirror).
	Source string `json:"source"`

	Tables
}

// NewSnapshot stamps tables with a fresh version and load time.
func NewSnapshot(source string, tables Tables) *Snapshot {
	return &Snapshot{
		Version:  uuid.NewString(),
		LoadedAt: time.Now(),
		Source:   source,
		Tables:   tables,
	}
}

// FindModel resolves a model by exact id, then by exact model_code.
func (s *Snapshot) FindModel(idOrCode string) (Model, bool) {
	for _, m := range s.Models {
		if m.ID == idOrCode {
			return m, true
		}
	}
	for _, m := range s.Models {
		if m.ModelCode == idOrCode {
			return m, true
		}
	}
	return Model{}, false
}

func (s *Snapshot) VariantsOf(modelID string) []Variant {
	out := make([]Variant, 0)
	for _, v := range s.Variants {
		if v.ModelID == modelID {
			out = append(out, v)
		}
	}
	return out
}

func (s *Snapshot) ColorsOf(modelID string) []Color {
	out := make([]Color, 0)
	for _, c := range s.Colors {
		if c.ModelID == modelID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Snapshot) ComponentsOf(modelID string) []Component {
	out := make([]Component, 0)
	for _, c := range s.Components {
		if c.ModelID == modelID {
			out = append(out, c)
		}
	}
	return out
}

// PricingOf returns the pricing rules of a model in table order.
func (s *Snapshot) PricingOf(modelID string) []PricingRule {
	out := make([]PricingRule, 0)
	for _, r := range s.Pricing {
		if r.ModelID == modelID {
			out = append(out, r)
		}
	}
	return out
}
