package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const lakh = 100000

var lakhDivisor = decimal.NewFromInt(lakh)

// FormatAmount renders an amount for display: "1.50 Lakhs" above one lakh,
// Indian digit grouping ("99,999") otherwise. Display only.
func FormatAmount(amount int64) string {
	if amount > lakh {
		return decimal.NewFromInt(amount).Div(lakhDivisor).StringFixed(2) + " Lakhs"
	}
	return groupDigits(amount)
}

// groupDigits groups the last three digits, then pairs (en-IN).
func groupDigits(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		out := tail
		for len(head) > 2 {
			out = head[len(head)-2:] + "," + out
			head = head[:len(head)-2]
		}
		s = head + "," + out
	}
	if neg {
		return "-" + s
	}
	return s
}
