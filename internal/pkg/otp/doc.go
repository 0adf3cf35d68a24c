// Package otp mints numeric one-time codes from a fresh TOTP secret per
// challenge.
package otp
