package ordering

import (
	"context"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/inbound"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/outbound/archive"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/outbound/mq"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/idempotency"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/storage"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type Dependency struct {
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Translator  i18n.Translator            `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Backend     *rationapi.Client          `validate:"required"`
	Sessions    *session.Store             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(context.Background(), dep); err != nil {
		return err
	}

	challenge := otc.New(otc.Config{
		Purpose:   otc.PurposeOrder,
		Countdown: dep.Config.GetSecond("otc.countdown_seconds"),
		Clock:     dep.Clock,
	}, rationapi.OrderOTC{Client: dep.Backend})

	uc := usecase.New(usecase.Dependency{
		RepoBackend:   dep.Backend,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument, dep.Config.GetString("app.kiosk_id")),
		RepoArchive:   archive.New(dep.Storage, dep.Instrument),
		Challenge:     challenge,
		Sessions:      dep.Sessions,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Clock:         dep.Clock,
		UUID:          dep.UUID,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})
	dep.Sessions.OnClear(uc.Reset)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Translator)

	return nil
}
