package catalog

// Table names as used by upstream sources and the raw tables view.
const (
	TableModels             = "models"
	TableVariants           = "variants"
	TableColors             = "colors"
	TableComponents         = "components"
	TablePricing            = "pricing"
	TableInsuranceProviders = "insurance_providers"
	TableInsurancePlans     = "insurance_plans"
	TableFinanceProviders   = "finance_providers"
	TableFinanceOptions     = "finance_options"
)

// TableNames lists every table kind in classifier precedence order.
var TableNames = []string{
	TableModels,
	TableVariants,
	TableColors,
	TableComponents,
	TablePricing,
	TableInsuranceProviders,
	TableInsurancePlans,
	TableFinanceProviders,
	TableFinanceOptions,
}

// Insurance plan types.
const (
	PlanTypeCore       = "CORE"
	PlanTypeAdditional = "ADDITIONAL"
)

// Model is a vehicle model. Both ID and ModelCode identify it uniquely.
type Model struct {
	ID          string `json:"id" gorm:"column:id" validate:"required"`
	ModelCode   string `json:"model_code" gorm:"column:model_code" validate:"required"`
	Name        string `json:"name" gorm:"column:name"`
	Description string `json:"description,omitempty" gorm:"column:description"`
	ImageURL    string `json:"image_url,omitempty" gorm:"column:image_url"`
}

// Variant is a trim of a model. PriceAddition may be zero or negative.
type Variant struct {
	ID              string `json:"id,omitempty" gorm:"column:id"`
	Code            string `json:"code" gorm:"column:code"`
	ModelID         string `json:"model_id" gorm:"column:model_id" validate:"required"`
	Name            string `json:"name,omitempty" gorm:"column:name"`
	PriceAddition   int64  `json:"price_addition" gorm:"column:price_addition"`
	IsDefault       bool   `json:"is_default" gorm:"column:is_default"`
	BatteryCapacity string `json:"battery_capacity,omitempty" gorm:"column:battery_capacity"`
	RangeKm         int64  `json:"range_km,omitempty" gorm:"column:range_km"`
}

type Color struct {
	ID         string `json:"id,omitempty" gorm:"column:id"`
	ModelID    string `json:"model_id" gorm:"column:model_id" validate:"required"`
	Name       string `json:"name,omitempty" gorm:"column:name"`
	ColorValue string `json:"color_value" gorm:"column:color_value"`
	ImageURL   string `json:"image_url,omitempty" gorm:"column:image_url"`
	IsDefault  bool   `json:"is_default" gorm:"column:is_default"`
}

type Component struct {
	ID            string `json:"id,omitempty" gorm:"column:id"`
	ModelID       string `json:"model_id" gorm:"column:model_id" validate:"required"`
	Name          string `json:"name,omitempty" gorm:"column:name"`
	ComponentType string `json:"component_type" gorm:"column:component_type"`
	Price         int64  `json:"price" gorm:"column:price"`
	IsRequired    bool   `json:"is_required" gorm:"column:is_required"`
	Description   string `json:"description,omitempty" gorm:"column:description"`
}

// PricingRule prices a model. A rule without pincode bounds is the model's
// base rule; a rule with both bounds set is a location override.
type PricingRule struct {
	ID             string `json:"id,omitempty" gorm:"column:id"`
	ModelID        string `json:"model_id" gorm:"column:model_id" validate:"required"`
	State          string `json:"state,omitempty" gorm:"column:state"`
	City           string `json:"city,omitempty" gorm:"column:city"`
	PincodeStart   *int64 `json:"pincode_start" gorm:"column:pincode_start"`
	PincodeEnd     *int64 `json:"pincode_end" gorm:"column:pincode_end"`
	BasePrice      int64  `json:"base_price" gorm:"column:base_price" validate:"gte=0"`
	FulfillmentFee int64  `json:"fulfillment_fee" gorm:"column:fulfillment_fee" validate:"gte=0"`
}

// IsBase reports whether the rule carries no pincode range.
func (r PricingRule) IsBase() bool {
	return r.PincodeStart == nil && r.PincodeEnd == nil
}

// Covers reports whether pincode falls inside the rule's inclusive range.
func (r PricingRule) Covers(pincode int64) bool {
	if r.PincodeStart == nil || r.PincodeEnd == nil {
		return false
	}
	return *r.PincodeStart <= pincode && pincode <= *r.PincodeEnd
}

// Provider is an insurance or finance provider. Upstream rows do not say
// which one; the classifier decides.
type Provider struct {
	ID      string `json:"id" gorm:"column:id" validate:"required"`
	Name    string `json:"name" gorm:"column:name"`
	LogoURL string `json:"logo_url,omitempty" gorm:"column:logo_url"`
}

type InsurancePlan struct {
	ID           string `json:"id,omitempty" gorm:"column:id"`
	ProviderID   string `json:"provider_id" gorm:"column:provider_id"`
	Name         string `json:"name,omitempty" gorm:"column:name"`
	PlanType     string `json:"plan_type" gorm:"column:plan_type" validate:"oneof=CORE ADDITIONAL"`
	Price        int64  `json:"price" gorm:"column:price" validate:"gte=0"`
	IsRequired   bool   `json:"is_required" gorm:"column:is_required"`
	TenureMonths int    `json:"tenure_months,omitempty" gorm:"column:tenure_months" validate:"gte=0"`
	Description  string `json:"description,omitempty" gorm:"column:description"`
}

// FinanceOption is a loan product. InterestRate is an annual percentage.
type FinanceOption struct {
	ID             string  `json:"id,omitempty" gorm:"column:id"`
	ProviderID     string  `json:"provider_id" gorm:"column:provider_id"`
	Name           string  `json:"name,omitempty" gorm:"column:name"`
	TenureMonths   int     `json:"tenure_months" gorm:"column:tenure_months" validate:"gt=0"`
	InterestRate   float64 `json:"interest_rate" gorm:"column:interest_rate" validate:"gte=0"`
	MinDownpayment int64   `json:"min_downpayment" gorm:"column:min_downpayment" validate:"gte=0"`
	ProcessingFee  int64   `json:"processing_fee" gorm:"column:processing_fee" validate:"gte=0"`
}
