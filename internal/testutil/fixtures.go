package testutil

import "github.com/Sternrassler/vehicle-catalog/pkg/catalog"

func pin(v int64) *int64 { return &v }

// FixtureTables is a small, valid catalog with two models.
//
// Model 1 (M1) is priced at 150000+2000 with a Mumbai override for
// pincodes 400001-400099 and has two variants. Model 2 (M2) is priced in
// Bengaluru only and has no variants.
func FixtureTables() catalog.Tables {
	return catalog.Tables{
		Models: []catalog.Model{
			{ID: "1", ModelCode: "M1", Name: "KM3000", Description: "Sport tourer", ImageURL: "https://cdn.example.com/km3000.png"},
			{ID: "2", ModelCode: "M2", Name: "KM4000", Description: "Naked", ImageURL: "https://cdn.example.com/km4000.png"},
		},
		Variants: []catalog.Variant{
			{ID: "v1", Code: "STD", ModelID: "1", Name: "Standard", PriceAddition: 5000, IsDefault: true, BatteryCapacity: "4.4 kWh", RangeKm: 120},
			{ID: "v2", Code: "LR", ModelID: "1", Name: "Long Range", PriceAddition: 15000, BatteryCapacity: "5.2 kWh", RangeKm: 150},
		},
		Colors: []catalog.Color{
			{ID: "c1", ModelID: "1", Name: "Red", ColorValue: "#ff0000", IsDefault: true},
			{ID: "c2", ModelID: "2", Name: "Black", ColorValue: "#000000", IsDefault: true},
		},
		Components: []catalog.Component{
			{ID: "k1", ModelID: "1", Name: "Fast charger", ComponentType: "charger", Price: 12000},
			{ID: "k2", ModelID: "1", Name: "Helmet", ComponentType: "accessory", Price: 2500, IsRequired: true},
		},
		Pricing: []catalog.PricingRule{
			{ID: "p1", ModelID: "1", State: "Maharashtra", BasePrice: 150000, FulfillmentFee: 2000},
			{ID: "p2", ModelID: "1", State: "Maharashtra", City: "Mumbai", PincodeStart: pin(400001), PincodeEnd: pin(400099), BasePrice: 145000, FulfillmentFee: 1500},
			{ID: "p3", ModelID: "2", State: "Karnataka", City: "Bengaluru", BasePrice: 180000, FulfillmentFee: 2500},
		},
		InsuranceProviders: []catalog.Provider{
			{ID: "ins1", Name: "ACKO General", LogoURL: "https://cdn.example.com/acko.png"},
		},
		InsurancePlans: []catalog.InsurancePlan{
			{ID: "pl1", ProviderID: "ins1", Name: "Own damage", PlanType: catalog.PlanTypeCore, Price: 4500, IsRequired: true, TenureMonths: 12},
			{ID: "pl2", ProviderID: "ins1", Name: "Zero depreciation", PlanType: catalog.PlanTypeAdditional, Price: 1200, TenureMonths: 12},
		},
		FinanceProviders: []catalog.Provider{
			{ID: "fin1", Name: "HDFC BANK", LogoURL: "https://cdn.example.com/hdfc.png"},
		},
		FinanceOptions: []catalog.FinanceOption{
			{ID: "fo1", ProviderID: "fin1", Name: "12 months", TenureMonths: 12, InterestRate: 12, MinDownpayment: 20000, ProcessingFee: 999},
			{ID: "fo2", ProviderID: "fin1", Name: "No cost", TenureMonths: 12, InterestRate: 0, MinDownpayment: 0},
		},
	}
}

// FixtureSnapshot wraps FixtureTables in a snapshot.
func FixtureSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot("fixture", FixtureTables())
}

// FixtureRowsJSON is the untyped upstream form of FixtureTables, as the
// webhook returns it. Classifying it yields FixtureTables.
const FixtureRowsJSON = `[
  {"row_number": 2, "id": 1, "model_code": "M1", "name": "KM3000", "description": "Sport tourer", "image_url": "https://cdn.example.com/km3000.png"},
  {"row_number": 3, "id": 2, "model_code": "M2", "name": "KM4000", "description": "Naked", "image_url": "https://cdn.example.com/km4000.png"},
  {"row_number": 4, "id": "v1", "code": "STD", "model_id": 1, "name": "Standard", "price_addition": 5000, "is_default": true, "battery_capacity": "4.4 kWh", "range_km": 120},
  {"row_number": 5, "id": "v2", "code": "LR", "model_id": 1, "name": "Long Range", "price_addition": "15000", "is_default": false, "battery_capacity": "5.2 kWh", "range_km": "150"},
  {"row_number": 6, "id": "c1", "model_id": 1, "name": "Red", "color_value": "#ff0000", "is_default": "TRUE"},
  {"row_number": 7, "id": "c2", "model_id": 2, "name": "Black", "color_value": "#000000", "is_default": true},
  {"row_number": 8, "id": "k1", "model_id": 1, "name": "Fast charger", "component_type": "charger", "price": 12000, "is_required": false},
  {"row_number": 9, "id": "k2", "model_id": 1, "name": "Helmet", "component_type": "accessory", "price": 2500, "is_required": true},
  {"row_number": 10, "id": "p1", "model_id": 1, "state": "Maharashtra", "city": "", "pincode_start": null, "pincode_end": null, "base_price": 150000, "fulfillment_fee": 2000},
  {"row_number": 11, "id": "p2", "model_id": 1, "state": "Maharashtra", "city": "Mumbai", "pincode_start": 400001, "pincode_end": "400099", "base_price": 145000, "fulfillment_fee": 1500},
  {"row_number": 12, "id": "p3", "model_id": 2, "state": "Karnataka", "city": "Bengaluru", "base_price": 180000, "fulfillment_fee": 2500},
  {"row_number": 13, "id": "ins1", "name": "ACKO General", "logo_url": "https://cdn.example.com/acko.png"},
  {"row_number": 14, "id": "fin1", "name": "HDFC BANK", "logo_url": "https://cdn.example.com/hdfc.png"},
  {"row_number": 15, "id": "pl1", "provider_id": "ins1", "name": "Own damage", "plan_type": "CORE", "price": 4500, "is_required": true, "tenure_months": 12},
  {"row_number": 16, "id": "pl2", "provider_id": "ins1", "name": "Zero depreciation", "plan_type": "ADDITIONAL", "price": 1200, "is_required": false, "tenure_months": 12},
  {"row_number": 17, "id": "fo1", "provider_id": "fin1", "name": "12 months", "tenure_months": 12, "interest_rate": 12, "min_downpayment": 20000, "processing_fee": 999},
  {"row_number": 18, "id": "fo2", "provider_id": "fin1", "name": "No cost", "tenure_months": 12, "interest_rate": 0, "min_downpayment": 0, "processing_fee": 0}
]`
