package payment_gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.xendit.co"

// HTTPGateway talks to a Xendit-compatible invoice API. The secret key is
// sent as the basic-auth username with an empty password, per the vendor's
// convention.
type HTTPGateway struct {
	baseURL   string
	secretKey string
	httpc     *http.Client
}

func NewHTTPGateway(baseURL, secretKey string, timeout time.Duration) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpc:     &http.Client{Timeout: timeout},
	}
}

type createInvoiceBody struct {
	ExternalID         string `json:"external_id"`
	Amount             int64  `json:"amount"`
	PayerEmail         string `json:"payer_email"`
	Description        string `json:"description"`
	Currency           string `json:"currency"`
	InvoiceDuration    int64  `json:"invoice_duration"`
	SuccessRedirectURL string `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string `json:"failure_redirect_url,omitempty"`
}

type invoiceBody struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Amount      int64     `json:"amount"`
	PayerEmail  string    `json:"payer_email"`
	Description string    `json:"description"`
	InvoiceURL  string    `json:"invoice_url"`
	Status      string    `json:"status"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

type errorBody struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// Ping reports whether the gateway host is reachable. Any HTTP response
// counts as reachable, only transport failures are errors.
func (g *HTTPGateway) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := g.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (g *HTTPGateway) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	body := createInvoiceBody{
		ExternalID:         req.ExternalID,
		Amount:             req.Amount,
		PayerEmail:         req.PayerEmail,
		Description:        req.Description,
		Currency:           req.Currency,
		InvoiceDuration:    req.InvoiceDuration,
		SuccessRedirectURL: req.SuccessRedirectURL,
		FailureRedirectURL: req.FailureRedirectURL,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build invoice request: %w", err)
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Join(ErrTimeout, err)
		}
		log.Printf("layer=gateway component=payment_gateway method=CreateInvoice external_id=%s err=%v", req.ExternalID, err)
		return nil, fmt.Errorf("gateway call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err != nil || eb.Message == "" {
			eb.Message = http.StatusText(resp.StatusCode)
		}
		log.Printf("layer=gateway component=payment_gateway method=CreateInvoice external_id=%s status=%d code=%s err=%s", req.ExternalID, resp.StatusCode, eb.ErrorCode, eb.Message)
		return nil, &Error{Code: eb.ErrorCode, Message: eb.Message, Status: resp.StatusCode}
	}

	var ib invoiceBody
	if err := json.Unmarshal(raw, &ib); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &Invoice{
		ID:          ib.ID,
		ExternalID:  ib.ExternalID,
		Amount:      ib.Amount,
		PayerEmail:  ib.PayerEmail,
		Description: ib.Description,
		InvoiceURL:  ib.InvoiceURL,
		Status:      ib.Status,
		Created:     ib.Created,
		Updated:     ib.Updated,
	}, nil
}
