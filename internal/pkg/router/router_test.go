package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Name string `json:"name"`
}

func (greeting) MessageKey() string { return i18n.MsgOTCVerified }

type created struct{}

func (created) StatusCode() int { return http.StatusCreated }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	trans, err := i18n.New(i18n.English)
	require.NoError(t, err)

	return NewRouter(Config{
		Config:     cfg,
		UUID:       uid.Static("cid-generated"),
		Instrument: instrument.NewNoop(),
		Translator: trans,
	})
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)

	return rec, body
}

func TestRouter_Success(t *testing.T) {
	ro := newTestRouter(t, "app: {default_lang: en}")
	ro.POST("/api/v1/echo", func(r *Request) (any, error) {
		var in greeting
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})
	ro.POST("/api/v1/created", func(*Request) (any, error) { return created{}, nil })
	ro.DELETE("/api/v1/none", func(*Request) (any, error) { return nil, nil })

	rec, body := serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/echo?lang=ta", strings.NewReader(`{"name":"jane"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP வெற்றிகரமாக சரிபார்க்கப்பட்டது.", body["message"])
	assert.Equal(t, map[string]any{"name": "jane"}, body["data"])
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "ta", rec.Header().Get("Content-Language"))

	rec, body = serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/created", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "OK", body["message"])

	rec, _ = serve(ro, httptest.NewRequest(http.MethodDelete, "/api/v1/none", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Errors(t *testing.T) {
	ro := newTestRouter(t, "app: {default_lang: en}")
	ro.POST("/api/v1/echo", func(r *Request) (any, error) {
		var in greeting
		return nil, r.DecodeBody(&in)
	})
	ro.GET("/api/v1/otc", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("code mismatch", goerror.CodeInvalidInput, "otc_invalid")
	})
	ro.GET("/api/v1/crash", func(*Request) (any, error) { return nil, errors.New("raw") })
	ro.GET("/api/v1/panic", func(*Request) (any, error) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/otc", nil)
	req.Header.Set("Accept-Language", "ta-IN,en;q=0.5")
	rec, body := serve(ro, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "otc_invalid", body["reason"])
	assert.Equal(t, "தவறான OTP. மீண்டும் முயற்சிக்கவும்.", body["message"])

	rec, body = serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"name":"a","extra":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "malformed_input", body["reason"])

	rec, body = serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/crash", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", body["reason"])

	rec, body = serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal", body["reason"])

	rec, body = serve(ro, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found.", body["message"])
}

func TestRouter_Maintenance(t *testing.T) {
	ro := newTestRouter(t, `
app:
  default_lang: ta
  maintenance:
    endpoints: "POST /api/v1/ordering/checkout, /api/v1/ordering/catalog"
`)
	ok := func(*Request) (any, error) { return greeting{}, nil }
	ro.POST("/api/v1/ordering/checkout", ok)
	ro.GET("/api/v1/ordering/checkout", ok)
	ro.GET("/api/v1/ordering/catalog", ok)

	rec, body := serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/ordering/checkout", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "இந்த சேவை பராமரிப்பில் உள்ளது.", body["message"])

	rec, _ = serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/ordering/checkout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/ordering/catalog", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Raw(t *testing.T) {
	ro := newTestRouter(t, "app: {default_lang: en}")
	ro.Raw(http.MethodGet, "/doc", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			ro.Fail(w, r, goerror.NewBusiness("no bill", goerror.CodeUnavailable, "receipt_unavailable"))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("INVOICE"))
	}))

	rec, _ := serve(ro, httptest.NewRequest(http.MethodGet, "/doc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INVOICE", rec.Body.String())

	rec, body := serve(ro, httptest.NewRequest(http.MethodGet, "/doc?fail=1", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "receipt_unavailable", body["reason"])
}

func TestCorrelationID_FromHeader(t *testing.T) {
	ro := newTestRouter(t, "app: {default_lang: en}")
	ro.GET("/cid", func(r *Request) (any, error) {
		return map[string]string{"cid": instrument.GetCorrelationID(r.Context())}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/cid", nil)
	req.Header.Set(HeaderRequestID, "  from-proxy ")
	rec, body := serve(ro, req)

	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, map[string]any{"cid": "from-proxy"}, body["data"])
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestUnderMaintenance(t *testing.T) {
	entries := []string{"POST /a", "/b", " get /c "}
	assert.True(t, underMaintenance(entries, http.MethodPost, "/a"))
	assert.False(t, underMaintenance(entries, http.MethodGet, "/a"))
	assert.True(t, underMaintenance(entries, http.MethodDelete, "/b"))
	assert.True(t, underMaintenance(entries, http.MethodGet, "/c"))
	assert.False(t, underMaintenance(nil, http.MethodGet, "/c"))
}
