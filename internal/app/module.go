package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/rationkiosk/internal/identity"
	"github.com/shandysiswandi/rationkiosk/internal/ordering"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sandbox.enabled") {
		if err := sandbox.New(sandbox.Dependency{
			Router:     a.router,
			Mail:       a.mail,
			Translator: a.translator,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			UUID:       a.uuid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module sandbox", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Backend:    a.backend,
			Sessions:   a.sessions,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.ordering.enabled") {
		if err := ordering.New(ordering.Dependency{
			Goroutine:   a.goroutine,
			Router:      a.router,
			Translator:  a.translator,
			Messaging:   a.messaging,
			Storage:     a.storage,
			Idempotency: a.idemp,
			Backend:     a.backend,
			Sessions:    a.sessions,
			Config:      a.config,
			Instrument:  a.ins,
			Clock:       a.clock,
			UUID:        a.uuid,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module ordering", "error", err)
			os.Exit(1)
		}
	}
}
