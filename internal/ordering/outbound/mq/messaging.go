package mq

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/shared/event"
)

type Messaging struct {
	client  messaging.Publisher
	ins     instrument.Instrumentation
	kioskID string
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, kioskID string) *Messaging {
	return &Messaging{client: client, ins: ins, kioskID: kioskID}
}

func (m *Messaging) PublishOrderConfirmed(ctx context.Context, msg usecase.OrderConfirmedEvent) error {
	ctx, span := m.ins.Tracer("ordering.outbound.mq").Start(ctx, "PublishOrderConfirmed")
	defer span.End()

	o := msg.Order
	body, err := json.Marshal(event.OrderConfirmedMessage{
		KioskID:       m.kioskID,
		OrderRef:      o.Ref,
		OrderID:       o.OrderID,
		TokenNumber:   o.TokenNumber,
		HouseholdCode: o.HouseholdCode,
		Lines: lo.Map(o.Lines, func(l entity.CartLine, _ int) event.OrderConfirmedLine {
			return event.OrderConfirmedLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
		}),
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		ConfirmedAt:   o.ConfirmedAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.OrderConfirmedTopic, messaging.Message{
		Body:    body,
		Key:     o.Ref,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
