package otp

import (
	"regexp"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTP_NewCode(t *testing.T) {
	g := NewTOTP("ration-sandbox", otp.DigitsSix)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	a, err := g.NewCode("jane.doe@gmail.com", at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), a)

	eight, err := NewTOTP("x", otp.DigitsEight).NewCode("a", at)
	require.NoError(t, err)
	assert.Len(t, eight, 8)

	assert.Equal(t, otp.DigitsSix, NewTOTP("x", otp.Digits(7)).digits)
}

func TestFixed(t *testing.T) {
	code, err := Fixed("552013").NewCode("any", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "552013", code)
}
