package domain

import (
	"fmt"
	"strings"
)

// Address is the flat shipping record collected at checkout. Validation is
// presentational only: non-empty required fields and a loose phone check, no
// canonicalization.
type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Email      string `json:"email,omitempty"`
}

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Validate returns one error per failing field, empty when the address is
// acceptable. Email is optional.
func (a Address) Validate() []error {
	var errs []error

	required := []struct {
		label string
		value string
	}{
		{"full name", a.FullName},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"province", a.Province},
		{"postal code", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.label))
		}
	}

	if strings.TrimSpace(a.Phone) != "" {
		digits := 0
		for _, r := range a.Phone {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < minPhoneDigits || digits > maxPhoneDigits {
			errs = append(errs, fmt.Errorf("phone must contain %d to %d digits", minPhoneDigits, maxPhoneDigits))
		}
	}

	return errs
}
