package email

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/mail"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

// CodeMessage is a one-time code addressed to a household member.
type CodeMessage struct {
	To        string
	Name      string
	Purpose   entity.Purpose
	Code      string
	ExpiresIn time.Duration
}

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) SendCode(ctx context.Context, msg CodeMessage) error {
	ctx, span := m.ins.Tracer("sandbox.outbound.email").Start(ctx, "SendCode")
	defer span.End()

	span.SetAttributes(attribute.String("otc.purpose", string(msg.Purpose)))

	subject := "Your ration shop login OTP"
	if msg.Purpose == entity.PurposeOrder {
		subject = "Your ration shop order OTP"
	}

	body := fmt.Sprintf("Hello %s,\n\nYour OTP is %s. It expires in %d minutes.\n\nDo not share this code with anyone.\n",
		msg.Name, msg.Code, int(msg.ExpiresIn.Minutes()))

	if err := m.client.Send(ctx, mail.Message{To: []string{msg.To}, Subject: subject, Body: body}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
