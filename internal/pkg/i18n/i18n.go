// Package i18n resolves the kiosk's user-facing text in English and Tamil.
package i18n

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ta"
	ut "github.com/go-playground/universal-translator"
)

// Supported languages.
const (
	English = "en"
	Tamil   = "ta"
)

// ErrUnsupportedLanguage is returned for a default language with no catalog.
var ErrUnsupportedLanguage = errors.New("i18n: unsupported language")

const maxParams = 4

type langKey struct{}

// WithLang returns a copy of ctx carrying lang.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Lang returns the language stored in ctx, or English.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}

	return English
}

// Translator renders catalog keys.
type Translator interface {
	Text(lang, key string, params ...string) string
	Negotiate(candidates ...string) string
}

// Catalog is a Translator backed by universal-translator.
type Catalog struct {
	uni         *ut.UniversalTranslator
	defaultLang string
}

// New loads the built-in messages. defaultLang is used when negotiation
// finds no supported candidate.
func New(defaultLang string) (*Catalog, error) {
	if defaultLang == "" {
		defaultLang = English
	}

	uni := ut.New(en.New(), en.New(), ta.New())
	if _, ok := uni.GetTranslator(defaultLang); !ok || messages[defaultLang] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, defaultLang)
	}

	for lang, msgs := range messages {
		trans, ok := uni.GetTranslator(lang)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
		}
		for key, text := range msgs {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("i18n: add %s/%s: %w", lang, key, err)
			}
		}
	}

	return &Catalog{uni: uni, defaultLang: defaultLang}, nil
}

// Text renders key in lang, falling back to English and then to key itself.
func (c *Catalog) Text(lang, key string, params ...string) string {
	// Missing placeholders render empty instead of panicking inside ut.
	args := append(params[:len(params):len(params)], make([]string, maxParams)...)

	for _, l := range []string{lang, English} {
		trans, ok := c.uni.GetTranslator(l)
		if !ok {
			continue
		}
		if msg, err := trans.T(key, args...); err == nil {
			return msg
		}
	}

	return key
}

// Negotiate returns the first supported language among candidates.
// Region subtags are ignored, so "ta-IN" selects Tamil.
func (c *Catalog) Negotiate(candidates ...string) string {
	for _, cand := range candidates {
		base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(cand)), "-")
		base, _, _ = strings.Cut(base, "_")
		if _, ok := messages[base]; ok {
			return base
		}
	}

	return c.defaultLang
}

// ParseAcceptLanguage orders the tags of an Accept-Language header by quality.
func ParseAcceptLanguage(header string) []string {
	type tag struct {
		name string
		q    float64
	}

	var tags []tag
	for part := range strings.SplitSeq(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if name == "" || name == "*" {
			continue
		}

		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q > 0 {
			tags = append(tags, tag{name: name, q: q})
		}
	}

	sort.SliceStable(tags, func(i, j int) bool { return tags[i].q > tags[j].q })

	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.name
	}

	return out
}
