package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks row-level constraints and the cross-row invariants the
// pricing resolver relies on: unique model ids and codes, pincode bounds set
// in pairs, and at most one base rule per model.
func Validate(t *Tables) error {
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid row: %s failed %q (%d violations)", fe.Namespace(), fe.Tag(), len(verrs))
		}
		return fmt.Errorf("validate tables: %w", err)
	}

	ids := make(map[string]bool, len(t.Models))
	codes := make(map[string]bool, len(t.Models))
	for _, m := range t.Models {
		if ids[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		if codes[m.ModelCode] {
			return fmt.Errorf("duplicate model_code %q", m.ModelCode)
		}
		ids[m.ID] = true
		codes[m.ModelCode] = true
	}

	bases := make(map[string]bool)
	for i, r := range t.Pricing {
		if (r.PincodeStart == nil) != (r.PincodeEnd == nil) {
			return fmt.Errorf("pricing row %d: pincode_start and pincode_end must be set together", i)
		}
		if r.IsBase() {
			if bases[r.ModelID] {
				return fmt.Errorf("pricing row %d: second base rule for model %q", i, r.ModelID)
			}
			bases[r.ModelID] = true
			continue
		}
		if *r.PincodeStart > *r.PincodeEnd {
			return fmt.Errorf("pricing row %d: pincode_start after pincode_end", i)
		}
	}
	return nil
}
