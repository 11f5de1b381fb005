// Package classify buckets untyped upstream rows into the nine catalog
// tables.
//
// Upstream rows carry no type tag, so a row's table is inferred from which
// fields it has. Rules are tried in order and the first match wins. A field
// is present when its key exists with a value that is neither null nor the
// empty string, so a zero interest rate still counts as present.
//
// Default precedence:
//
//  1. models: model_code without model_id
//  2. variants: battery_capacity and range_km
//  3. colors: color_value
//  4. components: component_type
//  5. pricing: pincode_start and pincode_end, or model_id with base_price
//  6. providers: logo_url without provider_id, plan_type or interest_rate,
//     split into insurance/finance by the ProviderRule
//  7. insurance_plans: plan_type
//  8. finance_options: interest_rate
package classify

import (
	"strings"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// Row is one untyped upstream record.
type Row map[string]any

// Has reports whether every key is present.
func (r Row) Has(keys ...string) bool {
	for _, k := range keys {
		if !present(r[k]) {
			return false
		}
	}
	return true
}

// Lacks reports whether no key is present.
func (r Row) Lacks(keys ...string) bool {
	for _, k := range keys {
		if present(r[k]) {
			return false
		}
	}
	return true
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Rule maps rows matching Match to a table. Table may be empty when Resolve
// picks the table per row.
type Rule struct {
	Name    string
	Match   func(Row) bool
	Table   string
	Resolve func(Row) string
}

func (r Rule) table(row Row) string {
	if r.Resolve != nil {
		return r.Resolve(row)
	}
	return r.Table
}

// ProviderRule decides whether a provider row is an insurance or a finance
// provider. It returns catalog.TableFinanceProviders or
// catalog.TableInsuranceProviders.
type ProviderRule func(Row) string

// NameMarkerRule classifies a provider as finance when its name contains any
// of markers, insurance otherwise. Matching is case-sensitive.
func NameMarkerRule(markers ...string) ProviderRule {
	return func(row Row) string {
		name := str(row["name"])
		for _, m := range markers {
			if m != "" && strings.Contains(name, m) {
				return catalog.TableFinanceProviders
			}
		}
		return catalog.TableInsuranceProviders
	}
}

// DefaultProviderRule treats names containing "BANK" as finance providers.
var DefaultProviderRule = NameMarkerRule("BANK")

// DefaultRules returns the standard precedence list.
func DefaultRules(provider ProviderRule) []Rule {
	if provider == nil {
		provider = DefaultProviderRule
	}
	return []Rule{
		{
			Name:  "model",
			Match: func(r Row) bool { return r.Has("model_code") && r.Lacks("model_id") },
			Table: catalog.TableModels,
		},
		{
			Name:  "variant",
			Match: func(r Row) bool { return r.Has("battery_capacity", "range_km") },
			Table: catalog.TableVariants,
		},
		{
			Name:  "color",
			Match: func(r Row) bool { return r.Has("color_value") },
			Table: catalog.TableColors,
		},
		{
			Name:  "component",
			Match: func(r Row) bool { return r.Has("component_type") },
			Table: catalog.TableComponents,
		},
		{
			Name: "pricing",
			Match: func(r Row) bool {
				return r.Has("pincode_start", "pincode_end") || r.Has("model_id", "base_price")
			},
			Table: catalog.TablePricing,
		},
		{
			Name: "provider",
			Match: func(r Row) bool {
				return r.Has("logo_url") && r.Lacks("provider_id", "plan_type", "interest_rate")
			},
			Resolve: provider,
		},
		{
			Name:  "insurance_plan",
			Match: func(r Row) bool { return r.Has("plan_type") },
			Table: catalog.TableInsurancePlans,
		},
		{
			Name:  "finance_option",
			Match: func(r Row) bool { return r.Has("interest_rate") },
			Table: catalog.TableFinanceOptions,
		},
	}
}
