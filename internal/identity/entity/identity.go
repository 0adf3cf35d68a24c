package entity

import "strings"

// Candidate is an identity the backend matched but that has not logged in yet.
type Candidate struct {
	// HouseholdCode is the 12 digit code without dashes.
	HouseholdCode string
	// ContactAddress is the handle with the contact domain appended.
	ContactAddress string
}

// NormalizeHouseholdCode strips the display dashes from a household code.
func NormalizeHouseholdCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), "-", "")
}

// ContactAddress appends domain to a contact handle.
func ContactAddress(handle, domain string) string {
	return strings.ToLower(strings.TrimSpace(handle)) + "@" + strings.TrimPrefix(domain, "@")
}
