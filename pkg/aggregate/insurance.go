package aggregate

import "github.com/Sternrassler/vehicle-catalog/pkg/catalog"

// Tenure is an insurance term offered to the buyer.
type Tenure struct {
	Label  string `json:"label"`
	Months int    `json:"months"`
}

// insuranceTenures is fixed; it is not derived from the plan rows.
var insuranceTenures = []Tenure{
	{Label: "1 year", Months: 12},
	{Label: "5 years", Months: 60},
}

type InsuranceView struct {
	VehicleID       string                  `json:"vehicle_id,omitempty"`
	Tenures         []Tenure                `json:"tenures"`
	Providers       []catalog.Provider      `json:"providers"`
	CorePlans       []catalog.InsurancePlan `json:"core_plans"`
	AdditionalPlans []catalog.InsurancePlan `json:"additional_plans"`
}

// GetInsuranceOptions lists all insurance providers and plans split by plan
// type. Plans are not linked to models, so vehicleID is echoed but does not
// filter anything.
func GetInsuranceOptions(snap *catalog.Snapshot, vehicleID string) InsuranceView {
	view := InsuranceView{
		VehicleID:       vehicleID,
		Tenures:         append([]Tenure(nil), insuranceTenures...),
		Providers:       append(make([]catalog.Provider, 0, len(snap.InsuranceProviders)), snap.InsuranceProviders...),
		CorePlans:       make([]catalog.InsurancePlan, 0),
		AdditionalPlans: make([]catalog.InsurancePlan, 0),
	}
	for _, p := range snap.InsurancePlans {
		switch p.PlanType {
		case catalog.PlanTypeCore:
			view.CorePlans = append(view.CorePlans, p)
		case catalog.PlanTypeAdditional:
			view.AdditionalPlans = append(view.AdditionalPlans, p)
		}
	}
	return view
}
