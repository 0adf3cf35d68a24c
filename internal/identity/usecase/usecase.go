package usecase

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/rationkiosk/internal/identity/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goroutine"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

const defaultContactDomain = "gmail.com"

type HouseholdLoginEvent struct {
	HouseholdCode string
	HouseholdArea string
}

type repoMessaging interface {
	PublishHouseholdLogin(ctx context.Context, msg HouseholdLoginEvent) error
}

type repoBackend interface {
	ValidateIdentity(ctx context.Context, in rationapi.ValidateIdentityRequest) (rationapi.ValidateIdentityResponse, error)
}

type loginChallenge interface {
	Request(ctx context.Context, target otc.Target) (otc.Status, error)
	Verify(ctx context.Context, code string) (rationapi.SessionGrant, error)
	Status() otc.Status
	Abandon()
}

type sessions interface {
	Set(s session.Session)
	Get() (session.Session, bool)
	Clear(ctx context.Context)
}

type Usecase struct {
	repoBackend   repoBackend
	repoMessaging repoMessaging
	login         loginChallenge
	sessions      sessions
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	mu        sync.Mutex
	candidate *entity.Candidate
}

type Dependency struct {
	RepoBackend   repoBackend
	RepoMessaging repoMessaging
	Login         loginChallenge
	Sessions      sessions
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoBackend:   dep.RepoBackend,
		repoMessaging: dep.RepoMessaging,
		login:         dep.Login,
		sessions:      dep.Sessions,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) contactDomain() string {
	if d := s.cfg.GetString("identity.contact_domain"); d != "" {
		return d
	}

	return defaultContactDomain
}

// Reset forgets the matched candidate and drops the login challenge. It runs
// whenever the session store is cleared.
func (s *Usecase) Reset(context.Context) {
	s.mu.Lock()
	s.candidate = nil
	s.mu.Unlock()

	s.login.Abandon()
}

func (s *Usecase) currentCandidate() (entity.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return entity.Candidate{}, false
	}

	return *s.candidate, true
}
