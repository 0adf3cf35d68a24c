package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

// InvoiceContentType is the media type of rendered invoices.
const InvoiceContentType = "text/plain; charset=utf-8"

const invoiceDateLayout = "02-01-2006 15:04"

//go:embed invoice.tmpl
var invoiceText string

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"t":    func(key string) string { return key },
	"rule": func() string { return strings.Repeat("-", 52) },
	"row": func(name, qty, price, total string) string {
		return fmt.Sprintf("%-18s %8s %11s %11s", name, qty, price, total)
	},
}).Parse(invoiceText))

type InvoiceInput struct {
	OrderID       string `validate:"omitempty,max=64"`
	ContactHandle string `validate:"required_without=OrderID,omitempty,email"`
	Lang          string `validate:"omitempty,max=8"`
}

type InvoiceOutput struct {
	Body        []byte
	ContentType string
}

type invoiceLine struct {
	Name     string
	Quantity string
	Price    string
	Total    string
}

type invoiceView struct {
	FamilyID    string
	TokenNumber string
	Date        string
	Lines       []invoiceLine
	Total       string
}

// Invoice renders an order of the token's household: the given order, else
// the contact's latest one.
func (s *Usecase) Invoice(ctx context.Context, token string, in InvoiceInput) (*InvoiceOutput, error) {
	ctx, span := s.startSpan(ctx, "Invoice")
	defer span.End()

	claims, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var o entity.Order
	if in.OrderID != "" {
		o, err = s.repoDB.GetOrderByID(ctx, in.OrderID)
	} else {
		o, err = s.repoDB.GetLatestOrder(ctx, claims.HouseholdCode, in.ContactHandle)
	}
	if errors.Is(err, goerror.ErrNotFound) || (err == nil && o.HouseholdCode != claims.HouseholdCode) {
		slog.WarnContext(ctx, "no order to invoice", "order_id", in.OrderID, "household_code", claims.HouseholdCode)
		return nil, errNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get order", "order_id", in.OrderID, "error", err)
		return nil, goerror.NewServer(err)
	}

	body, err := s.renderInvoice(s.translator.Negotiate(in.Lang, i18n.Lang(ctx)), o)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render invoice", "order_id", o.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &InvoiceOutput{Body: body, ContentType: InvoiceContentType}, nil
}

func (s *Usecase) renderInvoice(lang string, o entity.Order) ([]byte, error) {
	tmpl, err := invoiceTemplate.Clone()
	if err != nil {
		return nil, err
	}
	tmpl.Funcs(template.FuncMap{
		"t": func(key string) string { return s.translator.Text(lang, key) },
	})

	view := invoiceView{
		FamilyID:    o.HouseholdCode,
		TokenNumber: o.TokenNumber,
		Date:        o.CreatedAt.Format(invoiceDateLayout),
		Lines: lo.Map(o.Lines, func(l entity.OrderLine, _ int) invoiceLine {
			return invoiceLine{
				Name:     s.itemName(lang, l.Name),
				Quantity: strconv.FormatInt(l.Quantity, 10),
				Price:    rupees(l.UnitPrice),
				Total:    rupees(l.Subtotal()),
			}
		}),
		Total: rupees(o.Total()),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *Usecase) itemName(lang, name string) string {
	key := i18n.ItemKey(name)
	if text := s.translator.Text(lang, key); text != key {
		return text
	}

	return name
}

// rupees formats an amount in paise.
func rupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
