package types

import "strings"

// AddressSnapshot is the immutable copy of a shipping address stored on each
// order. It is serialized as jsonb and never updated after order creation.
type AddressSnapshot struct {
	Street     string  `json:"street"`
	Number     string  `json:"number"`
	Complement *string `json:"complement,omitempty"`
	ZipCode    string  `json:"zip_code"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Country    string  `json:"country"`
}

// IsZero reports whether the snapshot carries no address data.
func (a AddressSnapshot) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.ZipCode) == ""
}
