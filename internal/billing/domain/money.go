package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MinorUnits converts a decimal amount string such as "150.00" into the
// smallest currency unit (cents). The conversion is exact: the text is parsed
// digit by digit and never passes through floating point. Amounts must be
// non-negative with at most two fraction digits.
func MinorUnits(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount %q", amount)
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("malformed amount %q", amount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has sub-cent precision", amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", amount, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", amount, err)
	}
	return units*100 + cents, nil
}
