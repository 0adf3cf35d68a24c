package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/ordering/usecase"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/messaging"
	"github.com/shandysiswandi/rationkiosk/internal/shared/event"
)

func TestMessaging_PublishOrderConfirmed(t *testing.T) {
	// Arrange
	pub := messaging.NewMemory()
	m := NewMessaging(pub, instrument.NewNoop(), "kiosk-1")
	ctx := instrument.SetCorrelationID(context.Background(), "corr-9")
	order := entity.Order{
		Ref:           "ref-1",
		OrderID:       "ord-1",
		TokenNumber:   "AB12CD34",
		HouseholdCode: "123456789012",
		PaymentMethod: "cash",
		Total:         150,
		Lines: []entity.CartLine{
			{ItemID: "a", Quantity: 5, UnitPrice: 10},
			{ItemID: "b", Quantity: 2, UnitPrice: 50},
		},
	}

	// Act
	err := m.PublishOrderConfirmed(ctx, usecase.OrderConfirmedEvent{Order: order})

	// Assert
	require.NoError(t, err)
	msgs := pub.Messages(event.OrderConfirmedTopic)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ref-1", msgs[0].Key)
	assert.Equal(t, "corr-9", msgs[0].Headers[event.HeaderCorrelationID])

	var got event.OrderConfirmedMessage
	require.NoError(t, json.Unmarshal(msgs[0].Body, &got))
	assert.Equal(t, "kiosk-1", got.KioskID)
	assert.Equal(t, int64(150), got.Total)
	assert.Equal(t, []event.OrderConfirmedLine{
		{ItemID: "a", Quantity: 5, UnitPrice: 10},
		{ItemID: "b", Quantity: 2, UnitPrice: 50},
	}, got.Lines)
}
