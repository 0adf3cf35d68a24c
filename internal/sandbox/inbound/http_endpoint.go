package inbound

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

// HTTPEndpoint serves the ration backend contract. Business outcomes are
// 200 answers; only malformed requests, bad tokens and missing invoices get
// an error status.
type HTTPEndpoint struct {
	uc     uc
	router *router.Router
}

func (h *HTTPEndpoint) ValidateIdentity(w http.ResponseWriter, r *http.Request) {
	var req rationapi.ValidateIdentityRequest
	if err := router.DecodeJSON(r, &req); err != nil {
		h.router.Fail(w, r, err)
		return
	}

	resp, err := h.uc.ValidateIdentity(r.Context(), usecase.ValidateIdentityInput(req))
	h.reply(w, r, resp, err)
}

func (h *HTTPEndpoint) RequestOTC(w http.ResponseWriter, r *http.Request) {
	var req rationapi.RequestOTCRequest
	if err := router.DecodeJSON(r, &req); err != nil {
		h.router.Fail(w, r, err)
		return
	}

	resp, err := h.uc.RequestOTC(r.Context(), bearer(r), usecase.RequestOTCInput(req))
	h.reply(w, r, resp, err)
}

func (h *HTTPEndpoint) VerifyOTC(w http.ResponseWriter, r *http.Request) {
	var req rationapi.VerifyOTCRequest
	if err := router.DecodeJSON(r, &req); err != nil {
		h.router.Fail(w, r, err)
		return
	}

	resp, err := h.uc.VerifyOTC(r.Context(), bearer(r), usecase.VerifyOTCInput(req))
	h.reply(w, r, resp, err)
}

func (h *HTTPEndpoint) Catalog(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Catalog(r.Context(), bearer(r), strings.TrimSpace(r.URL.Query().Get("household_code")))
	h.reply(w, r, resp, err)
}

func (h *HTTPEndpoint) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var req rationapi.ConfirmOrderRequest
	if err := router.DecodeJSON(r, &req); err != nil {
		h.router.Fail(w, r, err)
		return
	}

	if key := r.Header.Get(rationapi.HeaderIdempotencyKey); key != "" && key != req.OrderRef {
		h.router.Fail(w, r, goerror.NewInvalidInput(nil, rationapi.HeaderIdempotencyKey, "must equal order_ref"))
		return
	}

	resp, err := h.uc.ConfirmOrder(r.Context(), bearer(r), usecase.ConfirmOrderInput(req))
	h.reply(w, r, resp, err)
}

func (h *HTTPEndpoint) Invoice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.uc.Invoice(r.Context(), bearer(r), usecase.InvoiceInput{
		OrderID:       strings.TrimSpace(q.Get("order_id")),
		ContactHandle: strings.TrimSpace(q.Get("contact_handle")),
		Lang:          strings.TrimSpace(q.Get("lang")),
	})
	if err != nil {
		h.router.Fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

func (h *HTTPEndpoint) reply(w http.ResponseWriter, r *http.Request, resp any, err error) {
	if err != nil {
		h.router.Fail(w, r, err)
		return
	}

	router.WriteJSON(w, resp, http.StatusOK)
}

func bearer(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}
