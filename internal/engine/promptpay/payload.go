package promptpay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"promptqr/internal/pkg/validator"
)

var ErrEncodingFailure = errors.New("failed to encode promptpay payload")

// EMVCo merchant-presented QR tags used by PromptPay.
const (
	tagPayloadFormat     = "00"
	tagPOIMethod         = "01"
	tagMerchantInfo      = "29"
	tagTransactionAmount = "54"
	tagCurrency          = "53"
	tagCountry           = "58"
	tagCRC               = "63"

	tagMerchantGUID = "00"
	tagMobile       = "01"
	tagNationalID   = "02"
	tagEWallet      = "03"

	payloadFormatMPM = "01"
	poiStatic        = "11"
	poiDynamic       = "12"
	guidPromptPay    = "A000000677010111"
	currencyTHB      = "764"
	countryTH        = "TH"

	maxAmountLength = 13
)

// Encoder turns a digits-only identifier and an optional amount into the
// payload string carried by the QR symbol.
type Encoder interface {
	Encode(identifier string, amount *float64) (string, error)
}

type PayloadEncoder struct{}

func NewEncoder() *PayloadEncoder {
	return &PayloadEncoder{}
}

func (e *PayloadEncoder) Encode(identifier string, amount *float64) (string, error) {
	target := validator.Digits(identifier)
	if target == "" || len(target) > EWalletLength {
		return "", fmt.Errorf("%w: unsupported target length %d", ErrEncodingFailure, len(target))
	}

	// A zero amount is encoded as a static QR where the payer types the amount.
	withAmount := amount != nil && *amount > 0

	poi := poiStatic
	if withAmount {
		poi = poiDynamic
	}

	targetTag, targetValue := formatTarget(target)
	merchant := field(tagMerchantGUID, guidPromptPay) + field(targetTag, targetValue)

	var b strings.Builder
	b.WriteString(field(tagPayloadFormat, payloadFormatMPM))
	b.WriteString(field(tagPOIMethod, poi))
	b.WriteString(field(tagMerchantInfo, merchant))
	b.WriteString(field(tagCountry, countryTH))
	b.WriteString(field(tagCurrency, currencyTHB))

	if withAmount {
		formatted := strconv.FormatFloat(*amount, 'f', 2, 64)
		if len(formatted) > maxAmountLength {
			return "", fmt.Errorf("%w: amount %s exceeds %d characters", ErrEncodingFailure, formatted, maxAmountLength)
		}
		b.WriteString(field(tagTransactionAmount, formatted))
	}

	// The checksum covers its own tag and length.
	b.WriteString(tagCRC + "04")
	b.WriteString(fmt.Sprintf("%04X", checksum(b.String())))

	return b.String(), nil
}

// formatTarget picks the merchant sub-tag by length. Mobile numbers swap the
// leading 0 for the 66 country code and are left-padded to 13 characters.
func formatTarget(target string) (tag, value string) {
	switch {
	case len(target) >= EWalletLength:
		return tagEWallet, target
	case len(target) >= NationalIDLength:
		return tagNationalID, target
	}

	if strings.HasPrefix(target, "0") {
		target = "66" + target[1:]
	}
	if len(target) < NationalIDLength {
		target = strings.Repeat("0", NationalIDLength-len(target)) + target
	}
	return tagMobile, target
}

func field(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}
