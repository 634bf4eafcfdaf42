package promptpay

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("amount must be a non-negative number")

// decimalAmount is plain decimal notation; strconv alone would also take hex
// floats, underscores and "Inf".
var decimalAmount = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseAmount returns nil for an empty amount, meaning the payload carries no
// fixed amount.
func ParseAmount(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if !decimalAmount.MatchString(raw) {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, raw)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, raw)
	}
	return &v, nil
}

// FormatAmount normalizes a parseable non-negative amount to two decimals and
// returns anything else unchanged.
func FormatAmount(raw string) string {
	v, err := ParseAmount(raw)
	if err != nil || v == nil {
		return raw
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
