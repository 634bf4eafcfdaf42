package promptpay

import (
	"errors"
	"fmt"

	"promptqr/internal/pkg/validator"
)

var (
	ErrInvalidIdentifier = errors.New("promptpay id must be a 10-digit mobile number or a 13-digit national id")
	// ErrIdentifierRequired is reported for an empty field; it is still an
	// ErrInvalidIdentifier.
	ErrIdentifierRequired = fmt.Errorf("%w: id is required", ErrInvalidIdentifier)
)

const (
	MobileLength     = 10
	NationalIDLength = 13
	EWalletLength    = 15
)

// ValidateIdentifier strips separators from raw and returns the digits when
// they form a mobile number or a national ID.
func ValidateIdentifier(raw string) (string, error) {
	if raw == "" {
		return "", ErrIdentifierRequired
	}

	digits := validator.Digits(raw)
	if !HasValidLength(digits) {
		return "", fmt.Errorf("%w: got %d digits", ErrInvalidIdentifier, len(digits))
	}
	return digits, nil
}

// HasValidLength reports whether a digits-only identifier is 10 or 13 long.
func HasValidLength(digits string) bool {
	return len(digits) == MobileLength || len(digits) == NationalIDLength
}
