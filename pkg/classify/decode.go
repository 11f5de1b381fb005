package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// reader pulls typed fields out of a row, keeping the first conversion error.
// Upstream values arrive as JSON numbers, numeric strings or spreadsheet text.
type reader struct {
	row Row
	err error
}

func (r *reader) fail(key string, v any, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("field %s: cannot read %v (%T) as %s", key, v, v, want)
	}
}

func (r *reader) str(key string) string {
	return str(r.row[key])
}

func (r *reader) integer(key string) int64 {
	v := r.row[key]
	n, ok := toFloat(v)
	if !ok {
		r.fail(key, v, "integer")
		return 0
	}
	return int64(math.Round(n))
}

func (r *reader) optInt(key string) *int64 {
	if !present(r.row[key]) {
		return nil
	}
	n := r.integer(key)
	return &n
}

func (r *reader) number(key string) float64 {
	v := r.row[key]
	n, ok := toFloat(v)
	if !ok {
		r.fail(key, v, "number")
	}
	return n
}

func (r *reader) boolean(key string) bool {
	switch v := r.row[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y":
			return true
		case "false", "0", "no", "n", "":
			return false
		}
	}
	r.fail(key, r.row[key], "boolean")
	return false
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

// toFloat accepts numbers and numeric text ("1,50,000" included). Missing
// values read as zero.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Decode appends row to the named table of t.
func Decode(table string, row Row, t *catalog.Tables) error {
	r := &reader{row: row}
	switch table {
	case catalog.TableModels:
		t.Models = append(t.Models, catalog.Model{
			ID:          r.str("id"),
			ModelCode:   r.str("model_code"),
			Name:        r.str("name"),
			Description: r.str("description"),
			ImageURL:    r.str("image_url"),
		})
	case catalog.TableVariants:
		t.Variants = append(t.Variants, catalog.Variant{
			ID:              r.str("id"),
			Code:            r.str("code"),
			ModelID:         r.str("model_id"),
			Name:            r.str("name"),
			PriceAddition:   r.integer("price_addition"),
			IsDefault:       r.boolean("is_default"),
			BatteryCapacity: r.str("battery_capacity"),
			RangeKm:         r.integer("range_km"),
		})
	case catalog.TableColors:
		t.Colors = append(t.Colors, catalog.Color{
			ID:         r.str("id"),
			ModelID:    r.str("model_id"),
			Name:       r.str("name"),
			ColorValue: r.str("color_value"),
			ImageURL:   r.str("image_url"),
			IsDefault:  r.boolean("is_default"),
		})
	case catalog.TableComponents:
		t.Components = append(t.Components, catalog.Component{
			ID:            r.str("id"),
			ModelID:       r.str("model_id"),
			Name:          r.str("name"),
			ComponentType: r.str("component_type"),
			Price:         r.integer("price"),
			IsRequired:    r.boolean("is_required"),
			Description:   r.str("description"),
		})
	case catalog.TablePricing:
		t.Pricing = append(t.Pricing, catalog.PricingRule{
			ID:             r.str("id"),
			ModelID:        r.str("model_id"),
			State:          r.str("state"),
			City:           r.str("city"),
			PincodeStart:   r.optInt("pincode_start"),
			PincodeEnd:     r.optInt("pincode_end"),
			BasePrice:      r.integer("base_price"),
			FulfillmentFee: r.integer("fulfillment_fee"),
		})
	case catalog.TableInsuranceProviders, catalog.TableFinanceProviders:
		p := catalog.Provider{
			ID:      r.str("id"),
			Name:    r.str("name"),
			LogoURL: r.str("logo_url"),
		}
		if table == catalog.TableFinanceProviders {
			t.FinanceProviders = append(t.FinanceProviders, p)
		} else {
			t.InsuranceProviders = append(t.InsuranceProviders, p)
		}
	case catalog.TableInsurancePlans:
		t.InsurancePlans = append(t.InsurancePlans, catalog.InsurancePlan{
			ID:           r.str("id"),
			ProviderID:   r.str("provider_id"),
			Name:         r.str("name"),
			PlanType:     strings.ToUpper(r.str("plan_type")),
			Price:        r.integer("price"),
			IsRequired:   r.boolean("is_required"),
			TenureMonths: int(r.integer("tenure_months")),
			Description:  r.str("description"),
		})
	case catalog.TableFinanceOptions:
		t.FinanceOptions = append(t.FinanceOptions, catalog.FinanceOption{
			ID:             r.str("id"),
			ProviderID:     r.str("provider_id"),
			Name:           r.str("name"),
			TenureMonths:   int(r.integer("tenure_months")),
			InterestRate:   r.number("interest_rate"),
			MinDownpayment: r.integer("min_downpayment"),
			ProcessingFee:  r.integer("processing_fee"),
		})
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return r.err
}
