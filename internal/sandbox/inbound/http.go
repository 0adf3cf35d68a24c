package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/shared/rationapi"
)

// BasePath is where the sandbox backend is mounted. Point backend.base_url
// at it to run the kiosk without a real ration backend.
const BasePath = "/sandbox/api"

type uc interface {
	ValidateIdentity(ctx context.Context, in usecase.ValidateIdentityInput) (*rationapi.ValidateIdentityResponse, error)
	RequestOTC(ctx context.Context, token string, in usecase.RequestOTCInput) (*rationapi.RequestOTCResponse, error)
	VerifyOTC(ctx context.Context, token string, in usecase.VerifyOTCInput) (*rationapi.VerifyOTCResponse, error)
	Catalog(ctx context.Context, token, householdCode string) (*rationapi.CatalogResponse, error)
	ConfirmOrder(ctx context.Context, token string, in usecase.ConfirmOrderInput) (*rationapi.ConfirmOrderResponse, error)
	Invoice(ctx context.Context, token string, in usecase.InvoiceInput) (*usecase.InvoiceOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc, router: r}

	r.Raw(http.MethodPost, BasePath+rationapi.PathValidateIdentity, http.HandlerFunc(end.ValidateIdentity))
	//
	r.Raw(http.MethodPost, BasePath+rationapi.PathRequestOTC, http.HandlerFunc(end.RequestOTC))
	r.Raw(http.MethodPost, BasePath+rationapi.PathVerifyOTC, http.HandlerFunc(end.VerifyOTC))
	//
	r.Raw(http.MethodGet, BasePath+rationapi.PathCatalog, http.HandlerFunc(end.Catalog))
	r.Raw(http.MethodPost, BasePath+rationapi.PathConfirmOrder, http.HandlerFunc(end.ConfirmOrder))
	r.Raw(http.MethodGet, BasePath+rationapi.PathInvoice, http.HandlerFunc(end.Invoice))
}
