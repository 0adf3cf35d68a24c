package inbound

import (
	"context"

	"github.com/shandysiswandi/rationkiosk/internal/identity/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/router"
)

type uc interface {
	Validate(ctx context.Context, in usecase.ValidateInput) (*usecase.ValidateOutput, error)

	RequestOTC(ctx context.Context) (*usecase.OTCStatusOutput, error)
	OTCStatus(ctx context.Context) (*usecase.OTCStatusOutput, error)
	VerifyOTC(ctx context.Context, in usecase.VerifyOTCInput) (*usecase.SessionOutput, error)

	Session(ctx context.Context) (*usecase.SessionOutput, error)
	Logout(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/identity/validate", end.Validate)
	//
	r.POST("/api/v1/identity/otc", end.RequestOTC)
	r.GET("/api/v1/identity/otc", end.OTCStatus)
	r.POST("/api/v1/identity/otc/verify", end.VerifyOTC)
	//
	r.GET("/api/v1/identity/session", end.Session)
	r.DELETE("/api/v1/identity/session", end.Logout)
}
