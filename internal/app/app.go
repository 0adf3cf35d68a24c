package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/httpclient"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/idempotency"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/mail"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/storage"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

// App wires dependencies and manages the kiosk agent lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	translator i18n.Translator
	clock      clock.Clocker
	uuid       uid.StringID

	// resources
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Publisher
	storage   storage.Storage

	// backend
	httpClient *httpclient.Client
	backend    *rationapi.Client
	sessions   *session.Store

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application from the config file and returns an App
// instance.
func New() *App {
	app := newApp()
	app.initConfig()
	app.init()

	return app
}

// NewWithConfig initializes the application around an already loaded config.
func NewWithConfig(cfg config.Config) *App {
	app := newApp()
	app.config = cfg
	app.init()

	return app
}

func newApp() *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (a *App) init() {
	a.initInstrument()
	a.initLibraries()
	a.initIdempotency()
	a.initMail()
	a.initStorage()
	a.initMessaging()
	a.initHTTPServer()
	a.initBackend()
	a.initModules()
	a.initClosers()
}
