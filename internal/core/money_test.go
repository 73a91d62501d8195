package core

import "testing"

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.5", 1250, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"0", 0, true},
		{"0.00", 0, true},
		{".50", 50, true},
		{"1000000", 100000000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{".", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		cents, err := ParseAmountToCents(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseAmountToCents(%q) error = %v, want nil", tc.in, err)
				continue
			}
			if cents != tc.cents {
				t.Errorf("ParseAmountToCents(%q) = %d, want %d", tc.in, cents, tc.cents)
			}
		} else if err == nil {
			t.Errorf("ParseAmountToCents(%q) error = nil, want error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1250, "12.50"},
		{1234, "12.34"},
		{5, "0.05"},
		{0, "0.00"},
		{100000, "1000.00"},
		{-1250, "-12.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatal("negative amount should not validate")
	}
}
