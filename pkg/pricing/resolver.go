// Package pricing resolves base and location-specific prices from a catalog
// snapshot and amortizes loans into equated monthly installments.
//
// All amounts are integers in the smallest currency unit.
package pricing

import (
	"math"
	"regexp"
	"strconv"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// Price is a resolved pricing figure for one model.
type Price struct {
	BasePrice      int64 `json:"base_price"`
	FulfillmentFee int64 `json:"fulfillment_fee"`

	// Overridden is true when a location rule replaced the base rule.
	Overridden bool `json:"overridden"`
}

// Total returns base price plus fulfillment fee plus addition.
func (p Price) Total(addition int64) int64 {
	return p.BasePrice + addition + p.FulfillmentFee
}

// ValidPincode reports whether s is a six-digit pincode.
func ValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// ResolveBasePrice returns the figures of the model's base rule.
func ResolveBasePrice(snap *catalog.Snapshot, modelID string) (Price, error) {
	for _, r := range snap.Pricing {
		if r.ModelID == modelID && r.IsBase() {
			return Price{BasePrice: r.BasePrice, FulfillmentFee: r.FulfillmentFee}, nil
		}
	}
	return Price{}, catalog.NotFound("no base pricing for model %q", modelID)
}

// ResolveLocationPrice returns the first location rule, in table order, whose
// pincode range covers pincode. It falls back to the base rule when pincode is
// malformed or nothing matches.
func ResolveLocationPrice(snap *catalog.Snapshot, modelID, pincode string) (Price, error) {
	if ValidPincode(pincode) {
		code, err := strconv.ParseInt(pincode, 10, 64)
		if err == nil {
			for _, r := range snap.Pricing {
				if r.ModelID == modelID && r.Covers(code) {
					return Price{BasePrice: r.BasePrice, FulfillmentFee: r.FulfillmentFee, Overridden: true}, nil
				}
			}
		}
	}
	return ResolveBasePrice(snap, modelID)
}

// ComputeEMI returns the monthly installment for a loan of
// principal-downpayment at annualRatePercent over tenureMonths.
//
// A zero rate divides the loan evenly and rounds up, so the installments
// never sum to less than the loan. Otherwise the standard amortization
// formula is rounded to the nearest unit. A loan of zero or less costs nothing.
func ComputeEMI(principal, downpayment int64, annualRatePercent float64, tenureMonths int) (int64, error) {
	if tenureMonths <= 0 {
		return 0, catalog.InvalidInput("tenure_months must be positive, got %d", tenureMonths)
	}
	if annualRatePercent < 0 {
		return 0, catalog.InvalidInput("interest_rate must not be negative, got %v", annualRatePercent)
	}

	loan := principal - downpayment
	if loan <= 0 {
		return 0, nil
	}

	r := annualRatePercent / 1200
	if r == 0 {
		n := int64(tenureMonths)
		return (loan + n - 1) / n, nil
	}

	growth := math.Pow(1+r, float64(tenureMonths))
	emi := float64(loan) * r * growth / (growth - 1)
	return int64(math.Round(emi)), nil
}
