// Package core holds the domain types shared by the account store and the
// expense ledger: money in integer cents, calendar dates, users, expenses
// and the error taxonomy surfaced to callers.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer cents. Arithmetic and persistence always use
// cents; floating point never touches stored amounts.
type Money struct {
	Cents int64
}

// String formats the amount with exactly two decimal digits ("12.50").
// Currency glyphs and thousands separators are the caller's concern.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Validate rejects negative amounts. Zero is a valid, if pointless, expense.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

// ParseAmountToCents converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. A third
// fractional digit rounds half-up; anything non-numeric, signed or empty is
// a ValidationError.
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Reason: "must not be empty"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, &ValidationError{Field: "amount", Reason: "must be an unsigned decimal number"}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, &ValidationError{Field: "amount", Reason: "not a valid number"}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, &ValidationError{Field: "amount", Reason: "not a valid number"}
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, &ValidationError{Field: "amount", Reason: "not a valid number"}
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, &ValidationError{Field: "amount", Reason: "not a valid number"}
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Reason: "number out of range"}
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, &ValidationError{Field: "amount", Reason: "number out of range"}
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}
