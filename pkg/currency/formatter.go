package currency

import (
	"fmt"
	"math"
	"strings"
)

// Format renders an amount with a currency code, thousands separators and
// two decimals, e.g. "EGP 12,345.50".
func Format(amount float64, code string) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return strings.TrimSpace(code + " n/a")
	}

	cents := math.Round(amount * 100)
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := fmt.Sprintf("%.0f", math.Floor(cents/100))
	frac := int64(cents) % 100

	result := fmt.Sprintf("%s.%02d", addThousandsSeparator(whole, ","), frac)
	if code != "" {
		result = code + " " + result
	}
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
