// Package validator validates request and domain structs.
//
// Business code depends on the Validator interface. Field errors are keyed by
// the struct field's json name and rendered in the language carried by the
// context (see package i18n).
package validator
