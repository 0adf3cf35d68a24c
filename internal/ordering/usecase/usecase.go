package usecase

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/idempotency"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

type OrderConfirmedEvent struct {
	Order entity.Order
}

type repoMessaging interface {
	PublishOrderConfirmed(ctx context.Context, msg OrderConfirmedEvent) error
}

type repoBackend interface {
	Catalog(ctx context.Context, householdCode string) (rationapi.CatalogResponse, error)
	ConfirmOrder(ctx context.Context, in rationapi.ConfirmOrderRequest) (rationapi.ConfirmOrderResponse, error)
	Invoice(ctx context.Context, in rationapi.InvoiceQuery) (rationapi.Document, error)
}

// repoArchive returns a nil receipt and no error when nothing is archived.
type repoArchive interface {
	SaveReceipt(ctx context.Context, r entity.Receipt) error
	LoadReceipt(ctx context.Context, orderID, lang string) (*entity.Receipt, error)
}

type orderChallenge interface {
	Request(ctx context.Context, target otc.Target) (otc.Status, error)
	Verify(ctx context.Context, code string) (string, error)
	Status() otc.Status
	Abandon()
}

type sessions interface {
	Get() (session.Session, bool)
}

type Usecase struct {
	repoBackend   repoBackend
	repoMessaging repoMessaging
	repoArchive   repoArchive
	challenge     orderChallenge
	sessions      sessions
	idempotency   idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	uuid          uid.StringID
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	confirming atomic.Bool

	mu      sync.Mutex
	cart    *entity.Cart
	catalog map[string]entity.CatalogItem
	draft   *entity.Order
}

type Dependency struct {
	RepoBackend   repoBackend
	RepoMessaging repoMessaging
	RepoArchive   repoArchive
	Challenge     orderChallenge
	Sessions      sessions
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	UUID          uid.StringID
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoBackend:   dep.RepoBackend,
		repoMessaging: dep.RepoMessaging,
		repoArchive:   dep.RepoArchive,
		challenge:     dep.Challenge,
		sessions:      dep.Sessions,
		idempotency:   dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		uuid:          dep.UUID,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		cart:          entity.NewCart(),
		catalog:       make(map[string]entity.CatalogItem),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("ordering.usecase").Start(ctx, name)
}

func (s *Usecase) session() (session.Session, error) {
	sess, ok := s.sessions.Get()
	if !ok {
		return session.Session{}, failure.ErrUnauthorized
	}

	return sess, nil
}

// Reset empties the cart and drops the checkout so the next household
// starts clean. It runs whenever the session store is cleared.
func (s *Usecase) Reset(context.Context) {
	s.mu.Lock()
	s.cart.Clear()
	s.catalog = make(map[string]entity.CatalogItem)
	s.draft = nil
	s.mu.Unlock()

	s.challenge.Abandon()
}
