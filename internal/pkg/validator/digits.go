package validator

import "strings"

const (
	// MobileMask and NationalIDMask use '0' as a digit slot; any other rune is
	// a literal separator.
	MobileMask     = "000-000-0000"
	NationalIDMask = "0-0000-00000-00-0"
)

// Digits strips every rune that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ApplyMask lays the digits of raw into pattern. Separators are only emitted
// while more digits follow. Digits beyond the pattern are appended as they
// are so an over-long number stays over-long.
func ApplyMask(raw, pattern string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	i := 0
	for _, p := range pattern {
		if i >= len(digits) {
			break
		}
		if p == '0' {
			b.WriteByte(digits[i])
			i++
			continue
		}
		b.WriteRune(p)
	}
	b.WriteString(digits[i:])
	return b.String()
}

// MaskPromptPayID picks the mobile mask once exactly ten digits are present and
// the national ID mask otherwise. Input without any digit is returned as is,
// so it still reads as filled in.
func MaskPromptPayID(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return raw
	}
	if len(digits) == 10 {
		return ApplyMask(raw, MobileMask)
	}
	return ApplyMask(raw, NationalIDMask)
}
