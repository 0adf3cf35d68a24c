package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	// ErrTokenExpired is returned for a token past its expiry.
	ErrTokenExpired = errors.New("JWT token has expired")
	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
)

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building an HS512 issuer.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Clock    clocker
	UUID     generator
}

// Claims identifies the household a token was issued to.
type Claims struct {
	libJWT.RegisteredClaims
	HouseholdCode string `json:"household_code"`
	ContactHandle string `json:"contact_handle"`
}

// HS512 signs and verifies tokens with a shared secret.
type HS512 struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    clocker
	uuid     generator
}

func NewHS512(cfg Config) (*HS512, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &HS512{
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		clock:    cfg.Clock,
		uuid:     cfg.UUID,
	}, nil
}

// Issue returns a signed token for the household member and its expiry.
func (s *HS512) Issue(householdCode, contactHandle string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.ttl)

	token, err := libJWT.NewWithClaims(libJWT.SigningMethodHS512, Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.uuid.Generate(),
			Subject:   householdCode,
			Issuer:    s.issuer,
			Audience:  libJWT.ClaimStrings{s.audience},
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(exp),
		},
		HouseholdCode: householdCode,
		ContactHandle: contactHandle,
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, exp, nil
}

// Verify parses token and returns its claims.
func (s *HS512) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := libJWT.ParseWithClaims(token, &claims,
		func(*libJWT.Token) (any, error) { return s.secret, nil },
		libJWT.WithIssuer(s.issuer),
		libJWT.WithAudience(s.audience),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.HouseholdCode == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
