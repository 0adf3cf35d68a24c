// Package rationapi is the client of the ration backend REST contract. The
// request and response types are shared with the sandbox backend.
package rationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/shared/failure"
	"github.com/shandysiswandi/rationkiosk/internal/shared/session"
)

const maxResponseBytes = 4 << 20

var (
	// ErrUnexpectedStatus is returned for non-2xx answers other than 401.
	ErrUnexpectedStatus = errors.New("rationapi: unexpected status")
	// ErrBadBaseURL is returned by New for an unusable base URL.
	ErrBadBaseURL = errors.New("rationapi: base url must be absolute http(s)")
)

// Doer sends HTTP requests. *httpclient.Client and *http.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sessions provides the bearer token for protected calls and is cleared when
// the backend answers 401.
type Sessions interface {
	Get() (session.Session, bool)
	Clear(ctx context.Context)
}

type Client struct {
	base     *url.URL
	http     Doer
	sessions Sessions
	ins      instrument.Instrumentation
}

func New(baseURL string, hc Doer, sessions Sessions, ins instrument.Instrumentation) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, baseURL)
	}

	return &Client{base: u, http: hc, sessions: sessions, ins: ins}, nil
}

func (c *Client) ValidateIdentity(ctx context.Context, in ValidateIdentityRequest) (ValidateIdentityResponse, error) {
	var out ValidateIdentityResponse
	err := c.call(ctx, "ValidateIdentity", http.MethodPost, PathValidateIdentity, nil, in, &out, false, nil)

	return out, err
}

func (c *Client) RequestOTC(ctx context.Context, in RequestOTCRequest) (RequestOTCResponse, error) {
	var out RequestOTCResponse
	err := c.call(ctx, "RequestOTC", http.MethodPost, PathRequestOTC, nil, in, &out, in.OrderRef != "", nil)

	return out, err
}

func (c *Client) VerifyOTC(ctx context.Context, in VerifyOTCRequest) (VerifyOTCResponse, error) {
	var out VerifyOTCResponse
	err := c.call(ctx, "VerifyOTC", http.MethodPost, PathVerifyOTC, nil, in, &out, in.OrderRef != "", nil)

	return out, err
}

func (c *Client) ConfirmOrder(ctx context.Context, in ConfirmOrderRequest) (ConfirmOrderResponse, error) {
	var out ConfirmOrderResponse
	hdr := http.Header{HeaderIdempotencyKey: []string{in.OrderRef}}
	err := c.call(ctx, "ConfirmOrder", http.MethodPost, PathConfirmOrder, nil, in, &out, true, hdr)

	return out, err
}

func (c *Client) Catalog(ctx context.Context, householdCode string) (CatalogResponse, error) {
	var out CatalogResponse
	q := url.Values{"household_code": []string{householdCode}}
	err := c.call(ctx, "Catalog", http.MethodGet, PathCatalog, q, nil, &out, true, nil)

	return out, err
}

func (c *Client) Invoice(ctx context.Context, in InvoiceQuery) (Document, error) {
	q := url.Values{}
	if in.OrderID != "" {
		q.Set("order_id", in.OrderID)
	} else {
		q.Set("contact_handle", in.ContactHandle)
	}
	if in.Lang != "" {
		q.Set("lang", in.Lang)
	}

	var doc Document
	err := c.call(ctx, "Invoice", http.MethodGet, PathInvoice, q, nil, &doc, true, nil)

	return doc, err
}

// call runs one contract call. out is JSON-decoded, or filled raw when it is
// a *Document.
func (c *Client) call(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	in, out any,
	protected bool,
	hdr http.Header,
) error {
	ctx, span := c.ins.Tracer("rationapi.client").Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.do(ctx, span, method, path, query, in, out, protected, hdr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (c *Client) do(
	ctx context.Context,
	span trace.Span,
	method, path string,
	query url.Values,
	in, out any,
	protected bool,
	hdr http.Header,
) error {
	var token string
	if protected {
		if c.sessions == nil {
			return failure.ErrUnauthorized
		}
		s, ok := c.sessions.Get()
		if !ok {
			return failure.ErrUnauthorized
		}
		token = s.AccessToken
	}

	u := c.base.JoinPath(path)
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		req.Header.Set("X-Correlation-ID", cid)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.sessions != nil {
			c.sessions.Clear(ctx)
		}
		return failure.ErrUnauthorized
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(data))
	}

	if doc, ok := out.(*Document); ok {
		doc.Body = data
		doc.ContentType = resp.Header.Get("Content-Type")
		return nil
	}

	return json.Unmarshal(data, out)
}
