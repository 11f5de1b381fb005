package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pin(v int64) *int64 { return &v }

func validTables() Tables {
	return Tables{
		Models: []Model{
			{ID: "1", ModelCode: "M1", Name: "Model One"},
			{ID: "2", ModelCode: "M2", Name: "Model Two"},
		},
		Pricing: []PricingRule{
			{ModelID: "1", BasePrice: 150000, FulfillmentFee: 2000},
			{ModelID: "1", PincodeStart: pin(400001), PincodeEnd: pin(400099), BasePrice: 145000},
		},
		InsurancePlans: []InsurancePlan{{ProviderID: "p1", PlanType: PlanTypeCore, Price: 1000}},
		FinanceOptions: []FinanceOption{{ProviderID: "f1", TenureMonths: 12, InterestRate: 9.5}},
	}
}

func TestFindModel(t *testing.T) {
	snap := NewSnapshot("test", Tables{Models: []Model{
		{ID: "M2", ModelCode: "X"},
		{ID: "1", ModelCode: "M2"},
	}})

	m, ok := snap.FindModel("M2")
	require.True(t, ok)
	assert.Equal(t, "M2", m.ID, "id match takes precedence over code match")

	m, ok = snap.FindModel("X")
	require.True(t, ok)
	assert.Equal(t, "M2", m.ID)

	_, ok = snap.FindModel("missing")
	assert.False(t, ok)
}

func TestNewSnapshot_Version(t *testing.T) {
	a := NewSnapshot("test", Tables{})
	b := NewSnapshot("test", Tables{})
	assert.NotEmpty(t, a.Version)
	assert.NotEqual(t, a.Version, b.Version)
	assert.False(t, a.LoadedAt.IsZero())
}

func TestPricingRule_Covers(t *testing.T) {
	r := PricingRule{PincodeStart: pin(400001), PincodeEnd: pin(400099)}
	assert.True(t, r.Covers(400001))
	assert.True(t, r.Covers(400050))
	assert.True(t, r.Covers(400099))
	assert.False(t, r.Covers(500001))
	assert.False(t, PricingRule{}.Covers(400050))
	assert.True(t, PricingRule{}.IsBase())
	assert.False(t, r.IsBase())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tables)
		wantErr string
	}{
		{name: "valid", mutate: func(*Tables) {}},
		{
			name:    "negative interest rate",
			mutate:  func(tb *Tables) { tb.FinanceOptions[0].InterestRate = -1 },
			wantErr: "InterestRate",
		},
		{
			name:    "zero tenure",
			mutate:  func(tb *Tables) { tb.FinanceOptions[0].TenureMonths = 0 },
			wantErr: "TenureMonths",
		},
		{
			name:    "unknown plan type",
			mutate:  func(tb *Tables) { tb.InsurancePlans[0].PlanType = "GOLD" },
			wantErr: "PlanType",
		},
		{
			name:    "duplicate model code",
			mutate:  func(tb *Tables) { tb.Models[1].ModelCode = "M1" },
			wantErr: "duplicate model_code",
		},
		{
			name: "second base rule",
			mutate: func(tb *Tables) {
				tb.Pricing = append(tb.Pricing, PricingRule{ModelID: "1", BasePrice: 1})
			},
			wantErr: "second base rule",
		},
		{
			name:    "half-open pincode range",
			mutate:  func(tb *Tables) { tb.Pricing[1].PincodeEnd = nil },
			wantErr: "set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := validTables()
			tt.mutate(&tb)
			err := Validate(&tb)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("model %q", "M9")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", InvalidInput("vehicle_id is required"))
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
	assert.Equal(t, KindInvalidInput, KindOf(wrapped))

	cause := errors.New("connection refused")
	up := UpstreamFailure(cause)
	assert.True(t, errors.Is(up, ErrUpstreamLoad))
	assert.True(t, errors.Is(up, cause))
	assert.Same(t, up, UpstreamFailure(up))

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
