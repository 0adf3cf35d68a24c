// Package router adapts httprouter to handlers that return a payload or an
// error, and renders both as localized JSON envelopes.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/uid"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message"`
	Reason  goerror.Reason    `json:"reason"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Middleware decorates an http.Handler.
type Middleware func(next http.Handler) http.Handler

// Chain wraps h so that mws[0] is the outermost middleware.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	Instrument instrument.Instrumentation
	Translator i18n.Translator
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr    *httprouter.Router
	trans i18n.Translator
	mws   []Middleware
}

// NewRouter builds the default kiosk router with standard middleware.
func NewRouter(cfg Config) *Router {
	ro := &Router{trans: cfg.Translator}

	ro.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ro.writeNotice(w, r, i18n.MsgRouteNotFound, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ro.writeNotice(w, r, i18n.MsgMethodNotAllowed, http.StatusMethodNotAllowed)
		}),
	}

	ro.mws = []Middleware{
		middlewareRecoverer,
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareLanguage(cfg.Config, cfg.Translator),
		middlewareObservability(cfg.Instrument),
		middlewareMaintenance(cfg.Config, ro),
	}

	return ro
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

// Raw registers a handler that writes its own response (binary documents or
// a foreign JSON contract). It still runs behind the standard middleware.
func (r *Router) Raw(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, append(r.mws, mws...)...))
}

// Fail renders err as the standard error envelope. Raw handlers use it for
// their failure path.
func (r *Router) Fail(w http.ResponseWriter, req *http.Request, err error) {
	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}

	lang := i18n.Lang(req.Context())

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, errorResponse{
			Message: r.text(lang, string(goerror.ReasonInternal)),
			Reason:  goerror.ReasonInternal,
		}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Reason: gerr.Reason(), Message: r.text(lang, string(gerr.Reason()))}
	if resp.Reason == "" {
		resp.Reason = goerror.ReasonInternal
		resp.Message = gerr.Msg()
	}

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		resp.Error = errValidate.Values()
	} else if len(gerr.Fields()) > 0 {
		resp.Error = gerr.Fields()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.Raw(method, path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			r.Fail(w, req, err)
			return
		}
		r.encode(req.Context(), w, resp)
	}), mws...)
}

func (r *Router) encode(ctx context.Context, w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "OK"
	if m, ok := resp.(interface{ MessageKey() string }); ok {
		msg = r.text(i18n.Lang(ctx), m.MessageKey())
	}

	var meta map[string]any
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		meta = m.Meta()
	}

	writeJSON(w, successResponse{Message: msg, Data: resp, Meta: meta}, code)
}

func (r *Router) writeNotice(w http.ResponseWriter, req *http.Request, key string, code int) {
	writeJSON(w, map[string]string{"message": r.text(i18n.Lang(req.Context()), key)}, code)
}

func (r *Router) text(lang, key string) string {
	if r.trans == nil {
		return key
	}

	return r.trans.Text(lang, key)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// WriteJSON writes data with the given status code. Raw handlers use it for
// contracts that do not follow the kiosk envelope.
func WriteJSON(w http.ResponseWriter, data any, code int) {
	writeJSON(w, data, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
