package core

import (
	"regexp"
	"strings"
)

// SortMode selects the ordering of expense listings.
type SortMode string

const (
	SortInsertion SortMode = "insertion" // id ascending, the default
	SortDateAsc   SortMode = "date_asc"
	SortDateDesc  SortMode = "date_desc"
)

// ParseSortMode maps a request parameter onto a SortMode, defaulting to
// insertion order for empty input.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortInsertion:
		return SortInsertion, nil
	case SortDateAsc:
		return SortDateAsc, nil
	case SortDateDesc:
		return SortDateDesc, nil
	default:
		return "", &ValidationError{Field: "sort", Reason: "must be insertion, date_asc or date_desc"}
	}
}

// Categories is the fixed set offered to clients. The store itself accepts
// free text.
var Categories = []string{
	"Food",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Utilities",
	"Health",
	"Other",
}

// categoryPlaceholders are dropdown default values a client may submit when
// the user never picked a category. They are rejected, not stored.
var categoryPlaceholders = map[string]struct{}{
	"Choose Category": {},
	"Select Category": {},
}

// AdminUsername names the one privileged row seeded at first run. It is an
// ordinary user row in every other respect.
const AdminUsername = "admin"

// User is an account row. Password is stored and compared in plain text;
// hashing is tracked as a follow-up in DESIGN.md.
type User struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Age           int    `json:"age"`
	Sex           string `json:"sex"`
	ContactNumber string `json:"contact_number"`
	Username      string `json:"username"`
	Password      string `json:"-"`
}

// IsAdmin reports whether this is the privileged row. The distinction lives
// purely in the username value.
func (u User) IsAdmin() bool {
	return u.Username == AdminUsername
}

// Expense is a ledger row. UserID is nil for rows recorded without an
// owner.
type Expense struct {
	ID          int64  `json:"id"`
	UserID      *int64 `json:"user_id,omitempty"`
	Amount      Money  `json:"-"`
	Category    string `json:"category"`
	Date        Date   `json:"-"`
	Description string `json:"description,omitempty"`
}

// Validate checks the fields an add operation must supply.
func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := ValidateCategory(e.Category); err != nil {
		return err
	}
	return e.Date.Validate()
}

// ValidateCategory rejects empty and placeholder values.
func ValidateCategory(category string) error {
	c := strings.TrimSpace(category)
	if c == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if _, placeholder := categoryPlaceholders[c]; placeholder {
		return &ValidationError{Field: "category", Reason: "must be selected"}
	}
	return nil
}

// emailPattern mirrors the source check: one non-'@' run, an '@', another
// non-'@' run, a dot, a final non-'@' run.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// contactPattern requires exactly 11 decimal digits.
var contactPattern = regexp.MustCompile(`^[0-9]{11}$`)

// Registration carries the register form fields.
type Registration struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Age           int    `json:"age"`
	Sex           string `json:"sex"`
	ContactNumber string `json:"contact_number"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

// Validate applies the registration checks: no empty field, a plausible
// email, an 11-digit contact number.
func (r Registration) Validate() error {
	required := []struct {
		field, value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"email", r.Email},
		{"sex", r.Sex},
		{"contact_number", r.ContactNumber},
		{"username", r.Username},
		{"password", r.Password},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}
	if r.Age < 0 {
		return &ValidationError{Field: "age", Reason: "must not be negative"}
	}
	if !emailPattern.MatchString(r.Email) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	if !contactPattern.MatchString(r.ContactNumber) {
		return &ValidationError{Field: "contact_number", Reason: "must be exactly 11 digits"}
	}
	return nil
}

// DashboardTotals holds the date-range sums shown on the stats panel, all
// derived from one reference date.
type DashboardTotals struct {
	Today     Money `json:"-"`
	ThisWeek  Money `json:"-"`
	ThisMonth Money `json:"-"`
	LastMonth Money `json:"-"`
	ThisYear  Money `json:"-"`
}
