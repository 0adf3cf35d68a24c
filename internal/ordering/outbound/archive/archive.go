package archive

import (
	"context"
	"errors"
	"path"

	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/storage"
)

const (
	metaOrderID = "order-id"
	metaLang    = "lang"
)

// Archive keeps receipts under receipts/<order id>/<lang>.
type Archive struct {
	store storage.Storage
	ins   instrument.Instrumentation
}

func New(store storage.Storage, ins instrument.Instrumentation) *Archive {
	return &Archive{store: store, ins: ins}
}

func key(orderID, lang string) string {
	return path.Join("receipts", orderID, lang)
}

func (a *Archive) SaveReceipt(ctx context.Context, r entity.Receipt) error {
	ctx, span := a.ins.Tracer("ordering.outbound.archive").Start(ctx, "SaveReceipt")
	defer span.End()

	if _, err := a.store.Put(ctx, key(r.OrderID, r.Lang), r.Body, storage.PutOptions{
		ContentType: r.ContentType,
		Metadata:    map[string]string{metaOrderID: r.OrderID, metaLang: r.Lang},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (a *Archive) LoadReceipt(ctx context.Context, orderID, lang string) (*entity.Receipt, error) {
	ctx, span := a.ins.Tracer("ordering.outbound.archive").Start(ctx, "LoadReceipt")
	defer span.End()

	body, obj, err := a.store.Get(ctx, key(orderID, lang))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &entity.Receipt{
		OrderID:     orderID,
		Lang:        lang,
		Body:        body,
		ContentType: obj.ContentType,
	}, nil
}
