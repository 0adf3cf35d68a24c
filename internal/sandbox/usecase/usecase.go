package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/hash"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/jwt"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/otp"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/outbound/email"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
)

const (
	defaultOTCTTL      = 5 * time.Minute
	defaultOTCAttempts = 3
)

var (
	errForbidden = goerror.NewBusiness("token does not cover this household", goerror.CodeForbidden, "forbidden")
	errNotFound  = goerror.NewBusiness("resource not found", goerror.CodeNotFound, "not_found")
)

type repoDB interface {
	GetHousehold(ctx context.Context, code string) (entity.Household, error)
	ListItems(ctx context.Context, area string) ([]entity.Item, error)
	SaveChallenge(ctx context.Context, c entity.Challenge) error
	UpdateChallenge(ctx context.Context, key string, fn func(c *entity.Challenge) error) error
	SaveGrant(ctx context.Context, g entity.Grant) error
	PlaceOrder(ctx context.Context, o entity.Order, grantID string) (entity.Order, bool, error)
	GetOrderByRef(ctx context.Context, ref string) (entity.Order, error)
	GetOrderByID(ctx context.Context, id string) (entity.Order, error)
	GetLatestOrder(ctx context.Context, householdCode, contact string) (entity.Order, error)
}

type repoMail interface {
	SendCode(ctx context.Context, msg email.CodeMessage) error
}

type tokens interface {
	Issue(householdCode, contactHandle string) (string, time.Time, error)
	Verify(token string) (jwt.Claims, error)
}

type Usecase struct {
	repoDB     repoDB
	repoMail   repoMail
	tokens     tokens
	codes      otp.Generator
	hash       hash.Hasher
	uuid       uid.StringID
	validator  validator.Validator
	translator i18n.Translator
	cfg        config.Config
	clock      clock.Clocker
	ins        instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Tokens     tokens
	Codes      otp.Generator
	Hash       hash.Hasher
	UUID       uid.StringID
	Validator  validator.Validator
	Translator i18n.Translator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:     dep.RepoDB,
		repoMail:   dep.RepoMail,
		tokens:     dep.Tokens,
		codes:      dep.Codes,
		hash:       dep.Hash,
		uuid:       dep.UUID,
		validator:  dep.Validator,
		translator: dep.Translator,
		cfg:        dep.Config,
		clock:      dep.Clock,
		ins:        dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("sandbox.usecase").Start(ctx, name)
}

func (s *Usecase) otcTTL() time.Duration {
	if d := s.cfg.GetMinute("sandbox.otc_ttl_minutes"); d > 0 {
		return d
	}

	return defaultOTCTTL
}

func (s *Usecase) otcAttempts() int {
	if n := s.cfg.GetInt("sandbox.otc_attempts"); n > 0 {
		return n
	}

	return defaultOTCAttempts
}

// authenticate resolves the bearer token of a protected call.
func (s *Usecase) authenticate(ctx context.Context, token string) (jwt.Claims, error) {
	if token == "" {
		slog.WarnContext(ctx, "protected call without bearer token")
		return jwt.Claims{}, failure.ErrUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		slog.WarnContext(ctx, "bearer token rejected", "error", err)
		return jwt.Claims{}, failure.ErrUnauthorized
	}

	return claims, nil
}

// household loads the household the claims cover. A non-empty code must be
// the same household.
func (s *Usecase) household(ctx context.Context, claims jwt.Claims, code string) (entity.Household, error) {
	if code != "" && code != claims.HouseholdCode {
		slog.WarnContext(ctx, "household outside token scope", "household_code", code, "token_household_code", claims.HouseholdCode)
		return entity.Household{}, errForbidden
	}

	h, err := s.repoDB.GetHousehold(ctx, claims.HouseholdCode)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token household not found", "household_code", claims.HouseholdCode)
		return entity.Household{}, failure.ErrUnauthorized
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get household", "household_code", claims.HouseholdCode, "error", err)
		return entity.Household{}, goerror.NewServer(err)
	}

	return h, nil
}
