package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Text(t *testing.T) {
	c, err := New(English)
	require.NoError(t, err)

	assert.Equal(t, "Invalid OTP. Please try again.", c.Text(English, "otc_invalid"))
	assert.Equal(t, "தவறான OTP. மீண்டும் முயற்சிக்கவும்.", c.Text(Tamil, "otc_invalid"))
	assert.Equal(t, "Not enough stock for Rice.", c.Text(English, WarnStockBelowLimit, "Rice"))
	assert.Equal(t, "Not enough stock for .", c.Text(English, WarnStockBelowLimit))
	assert.Equal(t, "அரிசி", c.Text(Tamil, ItemKey("Rice")))

	// English has no item entries, so the key comes back and callers keep the raw name.
	assert.Equal(t, "item.Rice", c.Text(English, ItemKey("Rice")))
	assert.Equal(t, "Your cart is empty.", c.Text("fr", "empty_order"))
	assert.Equal(t, "no.such.key", c.Text(Tamil, "no.such.key"))
}

func TestCatalog_KeysHaveBothLanguages(t *testing.T) {
	for key := range messages[English] {
		_, ok := messages[Tamil][key]
		assert.True(t, ok, "missing tamil text for %q", key)
	}
}

func TestNew_UnsupportedDefault(t *testing.T) {
	_, err := New("fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestCatalog_Negotiate(t *testing.T) {
	c, err := New(Tamil)
	require.NoError(t, err)

	assert.Equal(t, English, c.Negotiate("fr", "en-GB"))
	assert.Equal(t, Tamil, c.Negotiate("ta_IN"))
	assert.Equal(t, Tamil, c.Negotiate())
	assert.Equal(t, Tamil, c.Negotiate("de"))
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, []string{"ta-IN", "en", "fr"}, ParseAcceptLanguage("en;q=0.8, ta-IN, fr;q=0.1, *;q=0.5, de;q=0"))
	assert.Empty(t, ParseAcceptLanguage(""))
	assert.Equal(t, []string{"en"}, ParseAcceptLanguage("en, xx;q=abc"))
}

func TestLang(t *testing.T) {
	assert.Equal(t, English, Lang(context.Background()))
	assert.Equal(t, Tamil, Lang(WithLang(context.Background(), Tamil)))
}
