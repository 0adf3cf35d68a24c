package entity

import (
	"time"
)

type Purpose string

const (
	PurposeLogin Purpose = "login"
	PurposeOrder Purpose = "order"
)

// Verdict is the outcome of one verification attempt. The empty verdict
// means the code matched.
type Verdict string

const (
	VerdictMatched           Verdict = ""
	VerdictInvalidCode       Verdict = "invalid_code"
	VerdictAttemptsExhausted Verdict = "attempts_exhausted"
	VerdictExpired           Verdict = "expired"
	VerdictAlreadyUsed       Verdict = "already_used"
)

// Challenge is an issued one-time code. Only the hash of the code is kept.
type Challenge struct {
	Purpose       Purpose
	HouseholdCode string
	OrderRef      string
	Contact       string
	CodeHash      string
	ExpiresAt     time.Time
	AttemptsLeft  int
	Used          bool
}

// ChallengeKey identifies the challenge slot of a target. Issuing a new
// challenge for the same key replaces the previous one.
func ChallengeKey(purpose Purpose, householdCode, orderRef string) string {
	if purpose == PurposeOrder {
		return string(purpose) + ":" + householdCode + ":" + orderRef
	}

	return string(purpose) + ":" + householdCode
}

func (c Challenge) Key() string {
	return ChallengeKey(c.Purpose, c.HouseholdCode, c.OrderRef)
}

// Attempt applies one verification attempt at now. matches decides whether
// the submitted code fits CodeHash and is only consulted for a live
// challenge.
func (c *Challenge) Attempt(now time.Time, matches func(hash string) bool) Verdict {
	switch {
	case c.Used:
		return VerdictAlreadyUsed
	case !now.Before(c.ExpiresAt):
		return VerdictExpired
	case c.AttemptsLeft <= 0:
		return VerdictAttemptsExhausted
	}

	if !matches(c.CodeHash) {
		c.AttemptsLeft--
		if c.AttemptsLeft <= 0 {
			return VerdictAttemptsExhausted
		}
		return VerdictInvalidCode
	}

	c.Used = true

	return VerdictMatched
}

// Grant is the single-use proof that an order OTC was verified.
type Grant struct {
	ID            string
	OrderRef      string
	HouseholdCode string
	Used          bool
}
