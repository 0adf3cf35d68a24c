// Package config exposes typed read access to the kiosk configuration.
package config

import (
	"io"
	"time"
)

// DurationConfig reads integer values and scales them into durations.
type DurationConfig interface {
	GetMillisecond(key string) time.Duration
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
}

// Config defines the lookups used by the kiosk. Missing keys yield the zero
// value of the requested type.
type Config interface {
	io.Closer
	DurationConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string

	// GetBinary decodes a base64 encoded value. Invalid input yields nil.
	GetBinary(key string) []byte

	// GetArray accepts either a YAML sequence or a "<a>,<b>,..." string.
	// Blank elements are dropped.
	GetArray(key string) []string
}
