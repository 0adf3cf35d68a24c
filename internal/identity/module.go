package identity

import (
	"context"

	"github.com/shandysiswandi/rationkiosk/internal/identity/inbound"
	"github.com/shandysiswandi/rationkiosk/internal/identity/outbound/mq"
	"github.com/shandysiswandi/rationkiosk/internal/identity/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type Dependency struct {
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Backend    *rationapi.Client          `validate:"required"`
	Sessions   *session.Store             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(context.Background(), dep); err != nil {
		return err
	}

	login := otc.New(otc.Config{
		Purpose:   otc.PurposeLogin,
		Countdown: dep.Config.GetSecond("otc.countdown_seconds"),
		Clock:     dep.Clock,
	}, rationapi.LoginOTC{Client: dep.Backend})

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument, dep.Clock, dep.Config.GetString("app.kiosk_id"))

	uc := usecase.New(usecase.Dependency{
		RepoBackend:   dep.Backend,
		RepoMessaging: repoMsg,
		Login:         login,
		Sessions:      dep.Sessions,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})
	dep.Sessions.OnClear(uc.Reset)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
