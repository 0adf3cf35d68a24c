package inbound

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
)

const defaultReceiptType = "text/plain; charset=utf-8"

// HTTPEndpoint exposes HTTP handlers for the cart and checkout workflow.
type HTTPEndpoint struct {
	uc     uc
	router *router.Router
	trans  i18n.Translator
}

func (h *HTTPEndpoint) Catalog(r *router.Request) (any, error) {
	resp, err := h.uc.Catalog(r.Context())
	if err != nil {
		return nil, err
	}

	return h.toCatalog(r.Lang(), resp), nil
}

func (h *HTTPEndpoint) Cart(r *router.Request) (any, error) {
	resp, err := h.uc.Cart(r.Context())
	if err != nil {
		return nil, err
	}

	return CartResponse{CartView: h.toCart(r.Lang(), resp)}, nil
}

// Toggle selects or deselects one catalog item.
func (h *HTTPEndpoint) Toggle(r *router.Request) (any, error) {
	var req ToggleRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Toggle(r.Context(), usecase.ToggleInput{ItemID: req.ItemID})
	if err != nil {
		return nil, err
	}

	return CartUpdatedResponse{CartView: h.toCart(r.Lang(), resp)}, nil
}

// CheckoutInitiate freezes the cart and sends the order code.
func (h *HTTPEndpoint) CheckoutInitiate(r *router.Request) (any, error) {
	resp, err := h.uc.CheckoutInitiate(r.Context())
	if err != nil {
		return nil, err
	}

	return CheckoutStartedResponse{CheckoutView: h.toCheckout(r.Lang(), resp)}, nil
}

func (h *HTTPEndpoint) CheckoutStatus(r *router.Request) (any, error) {
	resp, err := h.uc.CheckoutStatus(r.Context())
	if err != nil {
		return nil, err
	}

	return CheckoutStatusResponse{CheckoutView: h.toCheckout(r.Lang(), resp)}, nil
}

func (h *HTTPEndpoint) CheckoutAbandon(r *router.Request) (any, error) {
	if err := h.uc.CheckoutAbandon(r.Context()); err != nil {
		return nil, err
	}

	return CheckoutAbandonedResponse{}, nil
}

// CheckoutConfirm places the order. Replaying it after success returns the
// same order. After a placement that failed in transit the body may be `{}`;
// the stored verification is reused and any code sent is ignored.
func (h *HTTPEndpoint) CheckoutConfirm(r *router.Request) (any, error) {
	var req ConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CheckoutConfirm(r.Context(), usecase.ConfirmInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	out := OrderConfirmedResponse{
		Order:            h.toOrder(r.Lang(), resp.Order),
		ReceiptAvailable: resp.ReceiptAvailable,
	}
	if resp.Warning != nil {
		out.Warning = &WarningView{Key: resp.Warning.Key, Message: h.trans.Text(r.Lang(), resp.Warning.Key)}
	}

	return out, nil
}

// Receipt streams the invoice document as an attachment.
func (h *HTTPEndpoint) Receipt(w http.ResponseWriter, req *http.Request) {
	resp, err := h.uc.Receipt(req.Context())
	if err != nil {
		h.router.Fail(w, req, err)
		return
	}

	rec := resp.Receipt
	ct := rec.ContentType
	if ct == "" {
		ct = defaultReceiptType
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.Body)))
	ext := ".txt"
	if strings.HasPrefix(ct, "application/pdf") {
		ext = ".pdf"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+rec.OrderID+"-"+rec.Lang+ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rec.Body); err != nil {
		slog.WarnContext(req.Context(), "failed to write receipt", "order_id", rec.OrderID, "error", err)
	}
}
