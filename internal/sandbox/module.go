// Package sandbox is an in-process implementation of the ration backend
// contract for demos and end-to-end runs of the kiosk.
package sandbox

import (
	"context"
	"errors"
	"log/slog"

	libOTP "github.com/pquerna/otp"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/hash"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/jwt"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/mail"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/otp"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/inbound"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/outbound/db"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/outbound/email"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/usecase"
)

const (
	tokenIssuer   = "rationkiosk-sandbox"
	tokenAudience = "rationkiosk"
	codeIssuer    = "Ration Shop"
)

// BasePath is the mount point of the sandbox routes.
const BasePath = inbound.BasePath

var ErrSecretRequired = errors.New("sandbox: sandbox.jwt_secret must be set to a base64 value of at least 64 bytes")

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Translator i18n.Translator            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(context.Background(), dep); err != nil {
		return err
	}

	secret := dep.Config.GetBinary("sandbox.jwt_secret")
	if len(secret) == 0 {
		return ErrSecretRequired
	}

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:   secret,
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
		TTL:      dep.Config.GetMinute("sandbox.session_ttl_minutes"),
		Clock:    dep.Clock,
		UUID:     dep.UUID,
	})
	if err != nil {
		return err
	}

	store, err := db.NewDB(dep.Instrument)
	if err != nil {
		return err
	}

	var codes otp.Generator = otp.NewTOTP(codeIssuer, libOTP.DigitsSix)
	if fixed := dep.Config.GetString("sandbox.fixed_code"); fixed != "" {
		slog.Warn("sandbox issues a fixed one-time code")
		codes = otp.Fixed(fixed)
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     store,
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Tokens:     tokens,
		Codes:      codes,
		Hash:       hash.NewBcrypt(dep.Config.GetInt("sandbox.bcrypt_cost"), dep.Config.GetString("sandbox.otc_pepper")),
		UUID:       dep.UUID,
		Validator:  dep.Validator,
		Translator: dep.Translator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
