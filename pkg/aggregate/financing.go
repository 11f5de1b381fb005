package aggregate

import (
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/pricing"
)

// FinancingQuery selects the amount to finance. Amount wins when set;
// otherwise VehicleID is priced at its base rule plus the matching
// variant's addition.
type FinancingQuery struct {
	VehicleID   string
	VariantCode string
	Amount      *int64
}

type FinancingView struct {
	VehicleID       string         `json:"vehicle_id,omitempty"`
	VariantCode     string         `json:"variant_code,omitempty"`
	Amount          int64          `json:"amount"`
	FormattedAmount string         `json:"formatted_amount"`
	Options         []FinanceQuote `json:"options"`
}

// FinanceQuote is one finance option priced against the requested amount.
type FinanceQuote struct {
	catalog.FinanceOption

	ProviderName string `json:"provider_name,omitempty"`
	ProviderLogo string `json:"provider_logo,omitempty"`
	Downpayment  int64  `json:"downpayment"`
	LoanAmount   int64  `json:"loan_amount"`
	EMI          int64  `json:"emi"`
	FormattedEMI string `json:"formatted_emi"`
	TotalPayable int64  `json:"total_payable"`
}

// GetFinancingOptions computes an EMI quote for every finance option.
func GetFinancingOptions(snap *catalog.Snapshot, q FinancingQuery) (FinancingView, error) {
	amount, err := financedAmount(snap, q)
	if err != nil {
		return FinancingView{}, err
	}

	providers := make(map[string]catalog.Provider, len(snap.FinanceProviders))
	for _, p := range snap.FinanceProviders {
		providers[p.ID] = p
	}

	view := FinancingView{
		VehicleID:       q.VehicleID,
		VariantCode:     q.VariantCode,
		Amount:          amount,
		FormattedAmount: pricing.FormatAmount(amount),
		Options:         make([]FinanceQuote, 0, len(snap.FinanceOptions)),
	}
	for _, opt := range snap.FinanceOptions {
		emi, err := pricing.ComputeEMI(amount, opt.MinDownpayment, opt.InterestRate, opt.TenureMonths)
		if err != nil {
			return FinancingView{}, err
		}
		downpayment := min(opt.MinDownpayment, amount)
		quote := FinanceQuote{
			FinanceOption: opt,
			Downpayment:   downpayment,
			LoanAmount:    amount - downpayment,
			EMI:           emi,
			FormattedEMI:  pricing.FormatAmount(emi),
			TotalPayable:  emi*int64(opt.TenureMonths) + downpayment + opt.ProcessingFee,
		}
		if p, ok := providers[opt.ProviderID]; ok {
			quote.ProviderName = p.Name
			quote.ProviderLogo = p.LogoURL
		}
		view.Options = append(view.Options, quote)
	}
	return view, nil
}

func financedAmount(snap *catalog.Snapshot, q FinancingQuery) (int64, error) {
	if q.Amount != nil {
		if *q.Amount < 0 {
			return 0, catalog.InvalidInput("amount must not be negative")
		}
		return *q.Amount, nil
	}
	if q.VehicleID == "" {
		return 0, catalog.InvalidInput("vehicle_id or amount is required")
	}

	m, ok := snap.FindModel(q.VehicleID)
	if !ok {
		return 0, catalog.NotFound("vehicle %q not found", q.VehicleID)
	}
	price, err := pricing.ResolveBasePrice(snap, m.ID)
	if err != nil {
		return 0, err
	}
	amount := price.BasePrice
	if q.VariantCode != "" {
		for _, v := range snap.VariantsOf(m.ID) {
			if v.Code == q.VariantCode || (v.ID != "" && v.ID == q.VariantCode) {
				amount += v.PriceAddition
				break
			}
		}
	}
	return amount, nil
}
