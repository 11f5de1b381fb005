package aggregate

import (
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/pricing"
)

// Vehicle is a model enriched with its base price and, on request, its
// variants, colors and components.
type Vehicle struct {
	catalog.Model

	// BasePrice and FulfillmentFee are nil when the model has no base rule.
	BasePrice      *int64 `json:"base_price"`
	FulfillmentFee *int64 `json:"fulfillment_fee"`
	FormattedPrice string `json:"formatted_price,omitempty"`

	Variants   []catalog.Variant   `json:"variants,omitempty"`
	Colors     []catalog.Color     `json:"colors,omitempty"`
	Components []catalog.Component `json:"components,omitempty"`
}

// ListVehicles returns every model in table order. A non-empty locationID
// keeps only models with a pricing rule whose state or city equals it.
func ListVehicles(snap *catalog.Snapshot, locationID string, inc Include) []Vehicle {
	out := make([]Vehicle, 0, len(snap.Models))
	for _, m := range snap.Models {
		if locationID != "" && !pricedAt(snap, m.ID, locationID) {
			continue
		}
		out = append(out, enrich(snap, m, inc))
	}
	return out
}

// GetVehicle resolves a model by id, then by model_code.
func GetVehicle(snap *catalog.Snapshot, idOrCode string, inc Include) (Vehicle, error) {
	if idOrCode == "" {
		return Vehicle{}, catalog.InvalidInput("vehicle id is required")
	}
	m, ok := snap.FindModel(idOrCode)
	if !ok {
		return Vehicle{}, catalog.NotFound("vehicle %q not found", idOrCode)
	}
	return enrich(snap, m, inc), nil
}

func pricedAt(snap *catalog.Snapshot, modelID, locationID string) bool {
	for _, r := range snap.Pricing {
		if r.ModelID == modelID && (r.State == locationID || r.City == locationID) {
			return true
		}
	}
	return false
}

func enrich(snap *catalog.Snapshot, m catalog.Model, inc Include) Vehicle {
	v := Vehicle{Model: m}
	if p, err := pricing.ResolveBasePrice(snap, m.ID); err == nil {
		base, fee := p.BasePrice, p.FulfillmentFee
		v.BasePrice = &base
		v.FulfillmentFee = &fee
		v.FormattedPrice = pricing.FormatAmount(base)
	}
	if inc.Variants {
		v.Variants = snap.VariantsOf(m.ID)
	}
	if inc.Colors {
		v.Colors = snap.ColorsOf(m.ID)
	}
	if inc.Components {
		v.Components = snap.ComponentsOf(m.ID)
	}
	return v
}
