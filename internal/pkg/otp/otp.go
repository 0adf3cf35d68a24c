package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Generator mints a one-time code for an account at a point in time.
type Generator interface {
	NewCode(account string, at time.Time) (string, error)
}

// TOTP generates codes from a throwaway TOTP key, so two challenges for the
// same account never share a code sequence.
type TOTP struct {
	issuer string
	period uint
	digits otp.Digits
}

// NewTOTP returns a TOTP generator. Digits other than 6 or 8 fall back to 6.
func NewTOTP(issuer string, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	return &TOTP{issuer: issuer, period: 30, digits: digits}
}

func (o *TOTP) NewCode(account string, at time.Time) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: account,
		Period:      o.period,
		SecretSize:  20,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return totp.GenerateCodeCustom(key.Secret(), at, totp.ValidateOpts{
		Period:    o.period,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Fixed always returns the same code. Tests and demos use it.
type Fixed string

func (f Fixed) NewCode(string, time.Time) (string, error) { return string(f), nil }
