package inbound

import (
	"time"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/shared/otc"
)

// Amounts are in paise.

type ToggleRequest struct {
	ItemID string `json:"item_id"`
}

type ConfirmRequest struct {
	Code string `json:"code"`
}

type CatalogItemView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	UnitPrice     int64  `json:"unit_price"`
	TotalQuantity int64  `json:"total_quantity"`
	Limit         int64  `json:"limit"`
	Selectable    bool   `json:"selectable"`
	Selected      bool   `json:"selected"`
}

type CatalogResponse struct {
	Items      []CatalogItemView `json:"items"`
	FamilySize int               `json:"family_size"`
}

func (CatalogResponse) MessageKey() string { return i18n.MsgCatalog }

type CartLineView struct {
	ItemID      string `json:"item_id"`
	DisplayName string `json:"display_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type WarningView struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type CartView struct {
	Lines   []CartLineView `json:"lines"`
	Total   int64          `json:"total"`
	Warning *WarningView   `json:"warning,omitempty"`
}

type CartResponse struct {
	CartView
}

func (CartResponse) MessageKey() string { return i18n.MsgCart }

type CartUpdatedResponse struct {
	CartView
}

func (CartUpdatedResponse) MessageKey() string { return i18n.MsgCartUpdated }

type OTCStatusView struct {
	Purpose           string     `json:"purpose"`
	State             string     `json:"state"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds  int        `json:"remaining_seconds"`
	AttemptsRemaining *int       `json:"attempts_remaining,omitempty"`
}

type OrderView struct {
	Ref           string         `json:"order_ref"`
	Status        string         `json:"status"`
	Lines         []CartLineView `json:"lines"`
	Total         int64          `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	OrderID       string         `json:"order_id,omitempty"`
	TokenNumber   string         `json:"token_number,omitempty"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
}

type CheckoutView struct {
	Order *OrderView    `json:"order"`
	OTC   OTCStatusView `json:"otc"`
}

type CheckoutStartedResponse struct {
	CheckoutView
}

func (CheckoutStartedResponse) MessageKey() string { return i18n.MsgCheckoutStarted }

type CheckoutStatusResponse struct {
	CheckoutView
}

func (CheckoutStatusResponse) MessageKey() string { return i18n.MsgCheckoutStatus }

type CheckoutAbandonedResponse struct{}

func (CheckoutAbandonedResponse) MessageKey() string { return i18n.MsgCheckoutAbandoned }

type OrderConfirmedResponse struct {
	Order            OrderView    `json:"order"`
	ReceiptAvailable bool         `json:"receipt_available"`
	Warning          *WarningView `json:"warning,omitempty"`
}

func (OrderConfirmedResponse) MessageKey() string { return i18n.MsgOrderConfirmed }

// itemName falls back to the backend name when the catalog has no
// translation.
func (h *HTTPEndpoint) itemName(lang, name string) string {
	key := i18n.ItemKey(name)
	if text := h.trans.Text(lang, key); text != key {
		return text
	}

	return name
}

func (h *HTTPEndpoint) toCatalog(lang string, out *usecase.CatalogOutput) CatalogResponse {
	return CatalogResponse{
		Items: lo.Map(out.Items, func(e usecase.CatalogEntry, _ int) CatalogItemView {
			return CatalogItemView{
				ID:            e.Item.ID,
				Name:          e.Item.Name,
				DisplayName:   h.itemName(lang, e.Item.Name),
				UnitPrice:     e.Item.UnitPrice,
				TotalQuantity: e.Item.TotalQuantity,
				Limit:         e.Item.Limit,
				Selectable:    e.Item.Selectable(),
				Selected:      e.Selected,
			}
		}),
		FamilySize: out.FamilySize,
	}
}

func (h *HTTPEndpoint) toLines(lang string, lines []entity.CartLine) []CartLineView {
	return lo.Map(lines, func(l entity.CartLine, _ int) CartLineView {
		return CartLineView{
			ItemID:      l.ItemID,
			DisplayName: h.itemName(lang, l.DisplayName),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		}
	})
}

func (h *HTTPEndpoint) toCart(lang string, out *usecase.CartOutput) CartView {
	v := CartView{Lines: h.toLines(lang, out.Cart.Lines), Total: out.Cart.Total}
	if out.Warning != nil {
		v.Warning = &WarningView{
			Key:     out.Warning.Key,
			Message: h.trans.Text(lang, out.Warning.Key, h.itemName(lang, out.Warning.Item)),
		}
	}

	return v
}

func (h *HTTPEndpoint) toOrder(lang string, o entity.Order) OrderView {
	v := OrderView{
		Ref:           o.Ref,
		Status:        string(o.Status),
		Lines:         h.toLines(lang, o.Lines),
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		OrderID:       o.OrderID,
		TokenNumber:   o.TokenNumber,
	}
	if !o.ConfirmedAt.IsZero() {
		at := o.ConfirmedAt
		v.ConfirmedAt = &at
	}

	return v
}

func (h *HTTPEndpoint) toCheckout(lang string, out *usecase.CheckoutOutput) CheckoutView {
	v := CheckoutView{OTC: toOTCStatus(out.Status)}
	if out.Order != nil {
		o := h.toOrder(lang, *out.Order)
		v.Order = &o
	}

	return v
}

func toOTCStatus(st otc.Status) OTCStatusView {
	v := OTCStatusView{
		Purpose:           string(st.Purpose),
		State:             string(st.State),
		RemainingSeconds:  st.RemainingSeconds,
		AttemptsRemaining: st.AttemptsRemaining,
	}
	if !st.ExpiresAt.IsZero() {
		exp := st.ExpiresAt
		v.ExpiresAt = &exp
	}

	return v
}
