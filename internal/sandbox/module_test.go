package sandbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/mail"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

const testConfig = `
app:
  default_lang: en
sandbox:
  jwt_secret: a2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2tra2traw==
  session_ttl_minutes: 30
  fixed_code: "482915"
  bcrypt_cost: 4
`

func newTestBackend(t *testing.T, yaml string) (*httptest.Server, error) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	trans, err := i18n.New(i18n.English)
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ro := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
		Translator: trans,
	})

	err = New(Dependency{
		Router:     ro,
		Mail:       mail.New(mail.SMTPConfig{From: "kiosk@example.com"}),
		Translator: trans,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		Clock:      clock.New(),
		UUID:       uid.NewUUID(),
		Validator:  v,
	})
	if err != nil {
		return nil, err
	}

	srv := httptest.NewServer(ro)
	t.Cleanup(srv.Close)

	return srv, nil
}

func TestNew_Secret(t *testing.T) {
	_, err := newTestBackend(t, "sandbox: {}")
	assert.ErrorIs(t, err, ErrSecretRequired)

	_, err = newTestBackend(t, "sandbox: {jwt_secret: c2hvcnQ=}")
	assert.Error(t, err)
}

func TestSandbox_Contract(t *testing.T) {
	// Arrange
	srv, err := newTestBackend(t, testConfig)
	require.NoError(t, err)

	sessions := session.NewStore()
	client, err := rationapi.New(srv.URL+BasePath, srv.Client(), sessions, instrument.NewNoop())
	require.NoError(t, err)
	ctx := context.Background()
	clk := clock.New()

	// Act & Assert: identity check
	match, err := client.ValidateIdentity(ctx, rationapi.ValidateIdentityRequest{HouseholdCode: "123456789012", ContactHandle: "jane.doe@gmail.com"})
	require.NoError(t, err)
	assert.True(t, match.Match)

	// Act & Assert: protected calls before login
	_, err = client.Catalog(ctx, "123456789012")
	assert.ErrorIs(t, err, failure.ErrUnauthorized)

	// Act & Assert: login through the kiosk challenge
	login := otc.New[rationapi.SessionGrant](otc.Config{Purpose: otc.PurposeLogin, Countdown: 90 * time.Second, Clock: clk}, rationapi.LoginOTC{Client: client})
	_, err = login.Request(ctx, otc.Target{HouseholdCode: "123456789012", ContactHandle: "jane.doe@gmail.com"})
	require.NoError(t, err)

	_, err = login.Verify(ctx, "000000")
	var rejected *otc.RejectedError
	require.ErrorAs(t, err, &rejected)
	require.NotNil(t, rejected.AttemptsRemaining)
	assert.Equal(t, 2, *rejected.AttemptsRemaining)

	grant, err := login.Verify(ctx, "482915")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", grant.Identity.DisplayName)
	sessions.Set(session.Session{Identity: session.Identity(grant.Identity), AccessToken: grant.AccessToken, ExpiresAt: grant.ExpiresAt})

	// Act & Assert: catalog
	cat, err := client.Catalog(ctx, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, 3, cat.FamilySize)
	require.NotEmpty(t, cat.Stock)

	// Act & Assert: order challenge and confirm
	order := otc.New[string](otc.Config{Purpose: otc.PurposeOrder, Countdown: 90 * time.Second, Clock: clk}, rationapi.OrderOTC{Client: client})
	_, err = order.Request(ctx, otc.Target{HouseholdCode: "123456789012", OrderRef: "ref-1", ContactHandle: "jane.doe@gmail.com"})
	require.NoError(t, err)
	receipt, err := order.Verify(ctx, "482915")
	require.NoError(t, err)

	confirm := rationapi.ConfirmOrderRequest{
		OrderRef:      "ref-1",
		Lines:         []rationapi.OrderLine{{ID: cat.Stock[0].ID, Quantity: cat.Stock[0].Limit}},
		ContactHandle: "jane.doe@gmail.com",
		Receipt:       receipt,
		PaymentMethod: rationapi.PaymentCash,
	}
	placed, err := client.ConfirmOrder(ctx, confirm)
	require.NoError(t, err)
	require.True(t, placed.Success)
	assert.Len(t, placed.TokenNumber, 8)

	replay, err := client.ConfirmOrder(ctx, confirm)
	require.NoError(t, err)
	assert.Equal(t, placed, replay)

	// Act & Assert: invoice
	doc, err := client.Invoice(ctx, rationapi.InvoiceQuery{OrderID: placed.OrderID, Lang: i18n.Tamil})
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Contains(t, string(doc.Body), placed.TokenNumber)
	assert.Contains(t, string(doc.Body), "அரிசி")

	// Act & Assert: a forged token clears the session
	sessions.Set(session.Session{AccessToken: "forged"})
	_, err = client.Catalog(ctx, "123456789012")
	assert.ErrorIs(t, err, failure.ErrUnauthorized)
	_, ok := sessions.Get()
	assert.False(t, ok)
}

func TestSandbox_HTTPErrors(t *testing.T) {
	srv, err := newTestBackend(t, testConfig)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		header map[string]string
		want   int
	}{
		{name: "malformed json", method: http.MethodPost, path: "/validate-identity", body: "{", want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/validate-identity", body: `{"household_code":"123456789012","contact_handle":"jane.doe@gmail.com","x":1}`, want: http.StatusBadRequest},
		{name: "invalid fields", method: http.MethodPost, path: "/validate-identity", body: `{"household_code":"12","contact_handle":"jane"}`, want: http.StatusUnprocessableEntity},
		{name: "no match is 200", method: http.MethodPost, path: "/validate-identity", body: `{"household_code":"999999999999","contact_handle":"jane.doe@gmail.com"}`, want: http.StatusOK},
		{name: "catalog without token", method: http.MethodGet, path: "/catalog?household_code=123456789012", want: http.StatusUnauthorized},
		{name: "invoice without token", method: http.MethodGet, path: "/invoice?contact_handle=jane.doe@gmail.com", want: http.StatusUnauthorized},
		{
			name:   "idempotency key mismatch",
			method: http.MethodPost,
			path:   "/confirm-order",
			body:   `{"order_ref":"ref-1","lines":[{"id":"che-rice","quantity":1}],"contact_handle":"jane.doe@gmail.com","receipt":"r","payment_method":"cash"}`,
			header: map[string]string{rationapi.HeaderIdempotencyKey: "ref-2"},
			want:   http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+BasePath+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
