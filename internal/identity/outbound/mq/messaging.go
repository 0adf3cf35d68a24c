package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/rationkiosk/internal/identity/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/clock"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/shared/event"
)

type Messaging struct {
	client  messaging.Publisher
	ins     instrument.Instrumentation
	clock   clock.Clocker
	kioskID string
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, clk clock.Clocker, kioskID string) *Messaging {
	return &Messaging{client: client, ins: ins, clock: clk, kioskID: kioskID}
}

func (m *Messaging) PublishHouseholdLogin(ctx context.Context, msg usecase.HouseholdLoginEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishHouseholdLogin")
	defer span.End()

	body, err := json.Marshal(event.HouseholdLoginMessage{
		KioskID:       m.kioskID,
		HouseholdCode: msg.HouseholdCode,
		HouseholdArea: msg.HouseholdArea,
		LoggedInAt:    m.clock.Now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.HouseholdLoginTopic, messaging.Message{
		Body:    body,
		Key:     msg.HouseholdCode,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
