package promptpay

import (
	"errors"
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	// standard CRC-16/CCITT-FALSE check value
	if got := checksum("123456789"); got != 0x29B1 {
		t.Errorf("checksum(123456789) = %04X, want 29B1", got)
	}
}

func TestPayloadEncoder_Encode(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		amount     *float64
		want       string
	}{
		{
			name:       "mobile without amount",
			identifier: "0812345678",
			want:       "00020101021129370016A000000677010111011300668123456785802TH530376463045D82",
		},
		{
			name:       "mobile reference vector",
			identifier: "0801234567",
			want:       "00020101021129370016A000000677010111011300668012345675802TH530376463046197",
		},
		{
			name:       "national id without amount",
			identifier: "1101700209261",
			want:       "00020101021129370016A000000677010111021311017002092615802TH530376463049D25",
		},
		{
			name:       "mobile with amount",
			identifier: "0812345678",
			amount:     ptr(100),
			want:       "00020101021229370016A000000677010111011300668123456785802TH53037645406100.006304BB8A",
		},
		{
			name:       "national id with fractional amount",
			identifier: "1101700209261",
			amount:     ptr(1234.5),
			want:       "00020101021229370016A000000677010111021311017002092615802TH530376454071234.506304180E",
		},
		{
			name:       "zero amount is static",
			identifier: "0812345678",
			amount:     ptr(0),
			want:       "00020101021129370016A000000677010111011300668123456785802TH530376463045D82",
		},
		{
			name:       "e-wallet id",
			identifier: "012345678901234",
			want:       "00020101021129390016A00000067701011103150123456789012345802TH530376463049781",
		},
		{
			name:       "separators ignored",
			identifier: "081-234-5678",
			want:       "00020101021129370016A000000677010111011300668123456785802TH530376463045D82",
		},
	}

	enc := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.Encode(tt.identifier, tt.amount)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPayloadEncoder_Deterministic(t *testing.T) {
	enc := NewEncoder()
	a, _ := enc.Encode("0812345678", ptr(42.25))
	b, _ := enc.Encode("0812345678", ptr(42.25))
	if a != b {
		t.Errorf("Encode() not deterministic: %s != %s", a, b)
	}
}

func TestPayloadEncoder_Failures(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		amount     *float64
	}{
		{name: "no digits", identifier: "abc"},
		{name: "too long", identifier: strings.Repeat("1", 16)},
		{name: "amount too wide", identifier: "0812345678", amount: ptr(1e12)},
	}

	enc := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(tt.identifier, tt.amount)
			if !errors.Is(err, ErrEncodingFailure) {
				t.Errorf("Encode() error = %v, want ErrEncodingFailure", err)
			}
		})
	}
}
