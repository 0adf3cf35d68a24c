package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ta"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
)

var (
	reHouseholdCode = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}$`)
	reContactHandle = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._%+-]{0,63}$`)
	reOTCCode       = regexp.MustCompile(`^\d{6}$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates a struct using its `validate` tags.
type Validator interface {
	Validate(ctx context.Context, data any) error
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate    *validator.Validate
	translators map[string]ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}

	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English and Tamil messages
// and the kiosk's custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), ta.New())
	v := &V10Validator{validate: validate, translators: make(map[string]ut.Translator)}

	for _, lang := range []string{i18n.English, i18n.Tamil} {
		trans, ok := uni.GetTranslator(lang)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTranslatorNotFound, lang)
		}
		v.translators[lang] = trans
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, v.translators[i18n.English]); err != nil {
		return nil, err
	}

	if err := registerRules(validate); err != nil {
		return nil, err
	}

	for lang, msgs := range ruleMessages {
		for tag, text := range msgs {
			if err := registerMessage(validate, v.translators[lang], tag, text); err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(ctx context.Context, data any) error {
	err := v.validate.StructCtx(ctx, data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	local := v.translators[i18n.Lang(ctx)]
	fallback := v.translators[i18n.English]

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Error()
		if local != nil {
			msg = fe.Translate(local)
		}
		if msg == fe.Error() {
			msg = fe.Translate(fallback)
		}
		out[fe.Field()] = msg
	}

	return out
}

func registerRules(validate *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		"household_code": reHouseholdCode,
		"contact_handle": reContactHandle,
		"otc_code":       reOTCCode,
	}

	for tag, re := range rules {
		err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(s)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// ruleMessages covers the custom rules in both languages and the built-in
// tags the kiosk uses in Tamil. English built-ins come from the validator's
// own translations.
var ruleMessages = map[string]map[string]string{
	i18n.English: {
		"household_code": "{0} must look like 1234-5678-9012",
		"contact_handle": "{0} must be the part of the email address before @",
		"otc_code":       "{0} must be a 6 digit code",
	},
	i18n.Tamil: {
		"required":       "{0} அவசியம்",
		"gt":             "{0} பூஜ்ஜியத்தை விட அதிகமாக இருக்க வேண்டும்",
		"oneof":          "{0} அனுமதிக்கப்பட்ட மதிப்பாக இருக்க வேண்டும்",
		"household_code": "{0} 1234-5678-9012 வடிவில் இருக்க வேண்டும்",
		"contact_handle": "{0} மின்னஞ்சல் முகவரியில் @ க்கு முந்தைய பகுதியாக இருக்க வேண்டும்",
		"otc_code":       "{0} 6 இலக்க குறியீடாக இருக்க வேண்டும்",
	},
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
