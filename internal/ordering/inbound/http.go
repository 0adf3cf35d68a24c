package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
)

type uc interface {
	Catalog(ctx context.Context) (*usecase.CatalogOutput, error)
	Cart(ctx context.Context) (*usecase.CartOutput, error)
	Toggle(ctx context.Context, in usecase.ToggleInput) (*usecase.CartOutput, error)

	CheckoutInitiate(ctx context.Context) (*usecase.CheckoutOutput, error)
	CheckoutStatus(ctx context.Context) (*usecase.CheckoutOutput, error)
	CheckoutConfirm(ctx context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error)
	CheckoutAbandon(ctx context.Context) error

	Receipt(ctx context.Context) (*usecase.ReceiptOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, trans i18n.Translator) {
	end := &HTTPEndpoint{uc: uc, router: r, trans: trans}

	r.GET("/api/v1/ordering/catalog", end.Catalog)
	//
	r.GET("/api/v1/ordering/cart", end.Cart)
	r.POST("/api/v1/ordering/cart/toggle", end.Toggle)
	//
	r.POST("/api/v1/ordering/checkout", end.CheckoutInitiate)
	r.GET("/api/v1/ordering/checkout", end.CheckoutStatus)
	r.DELETE("/api/v1/ordering/checkout", end.CheckoutAbandon)
	r.POST("/api/v1/ordering/checkout/confirm", end.CheckoutConfirm)
	r.Raw(http.MethodGet, "/api/v1/ordering/checkout/receipt", http.HandlerFunc(end.Receipt))
}
