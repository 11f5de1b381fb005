package aggregate

import (
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/pricing"
)

// PricingView is the priced breakdown of one model.
type PricingView struct {
	VehicleID      string `json:"vehicle_id"`
	ModelCode      string `json:"model_code"`
	Name           string `json:"name"`
	LocationCode   string `json:"location_code,omitempty"`
	LocationPriced bool   `json:"location_pricing_applied"`

	BasePrice      int64  `json:"base_price"`
	FulfillmentFee int64  `json:"fulfillment_fee"`
	TotalPrice     int64  `json:"total_price"`
	FormattedTotal string `json:"formatted_total"`

	VariantPricing []VariantPrice `json:"variant_pricing"`
}

type VariantPrice struct {
	VariantCode    string `json:"variant_code"`
	VariantName    string `json:"variant_name,omitempty"`
	IsDefault      bool   `json:"is_default"`
	PriceAddition  int64  `json:"price_addition"`
	TotalPrice     int64  `json:"total_price"`
	FormattedTotal string `json:"formatted_total"`
}

// GetPricing prices a model and each of its variants. A six-digit
// locationCode covered by a location rule replaces the base figures.
func GetPricing(snap *catalog.Snapshot, idOrCode, locationCode string) (PricingView, error) {
	if idOrCode == "" {
		return PricingView{}, catalog.InvalidInput("vehicle_id is required")
	}
	m, ok := snap.FindModel(idOrCode)
	if !ok {
		return PricingView{}, catalog.NotFound("vehicle %q not found", idOrCode)
	}

	price, err := pricing.ResolveBasePrice(snap, m.ID)
	if err != nil {
		return PricingView{}, err
	}
	if locationCode != "" {
		if price, err = pricing.ResolveLocationPrice(snap, m.ID, locationCode); err != nil {
			return PricingView{}, err
		}
	}

	view := PricingView{
		VehicleID:      m.ID,
		ModelCode:      m.ModelCode,
		Name:           m.Name,
		LocationCode:   locationCode,
		LocationPriced: price.Overridden,
		BasePrice:      price.BasePrice,
		FulfillmentFee: price.FulfillmentFee,
		TotalPrice:     price.Total(0),
		FormattedTotal: pricing.FormatAmount(price.Total(0)),
		VariantPricing: make([]VariantPrice, 0),
	}
	for _, v := range snap.VariantsOf(m.ID) {
		total := price.Total(v.PriceAddition)
		view.VariantPricing = append(view.VariantPricing, VariantPrice{
			VariantCode:    v.Code,
			VariantName:    v.Name,
			IsDefault:      v.IsDefault,
			PriceAddition:  v.PriceAddition,
			TotalPrice:     total,
			FormattedTotal: pricing.FormatAmount(total),
		})
	}
	return view, nil
}
