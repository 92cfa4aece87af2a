package payment_gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrTimeout = errors.New("gateway timeout")
var ErrCircuitOpen = errors.New("circuit open")

// Error is the structured failure a gateway call can return instead of a
// success payload. Status carries the upstream HTTP status when known.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

type CreateInvoiceRequest struct {
	ExternalID         string
	Amount             int64
	PayerEmail         string
	Description        string
	Currency           string
	InvoiceDuration    int64
	SuccessRedirectURL string
	FailureRedirectURL string
}

// Invoice mirrors the fields the gateway reports back on creation.
type Invoice struct {
	ID          string
	ExternalID  string
	Amount      int64
	PayerEmail  string
	Description string
	InvoiceURL  string
	Status      string
	Created     time.Time
	Updated     time.Time
}

type Gateway interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
}

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
	IsFailure        func(error) bool
}

type CircuitBreakerGateway struct {
	next Gateway
	cfg  CircuitBreakerConfig

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func NewCircuitBreakerGateway(next Gateway, cfg CircuitBreakerConfig) *CircuitBreakerGateway {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 2 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool {
			if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			if gwErr, ok := AsError(err); ok {
				return gwErr.Status >= 500
			}
			return false
		}
	}
	return &CircuitBreakerGateway{next: next, cfg: cfg, state: cbClosed}
}

func (g *CircuitBreakerGateway) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if err := g.beforeCall(); err != nil {
		return nil, err
	}

	inv, err := g.next.CreateInvoice(ctx, req)
	g.afterCall(err)
	return inv, err
}

func (g *CircuitBreakerGateway) beforeCall() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(g.openedAt) >= g.cfg.OpenTimeout {
			g.state = cbHalfOpen
			g.successes = 0
			g.halfInFlight = false
		} else {
			return ErrCircuitOpen
		}
		fallthrough
	case cbHalfOpen:
		if g.halfInFlight {
			return ErrCircuitOpen
		}
		g.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (g *CircuitBreakerGateway) afterCall(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == cbHalfOpen {
		g.halfInFlight = false
	}

	if err == nil {
		switch g.state {
		case cbClosed:
			g.failures = 0
		case cbHalfOpen:
			g.successes++
			if g.successes >= g.cfg.SuccessThreshold {
				g.state = cbClosed
				g.failures = 0
				g.successes = 0
			}
		}
		return
	}

	if !g.cfg.IsFailure(err) {
		return
	}

	switch g.state {
	case cbClosed:
		g.failures++
		if g.failures >= g.cfg.FailureThreshold {
			g.state = cbOpen
			g.openedAt = time.Now().UTC()
			g.successes = 0
			g.halfInFlight = false
		}
	case cbHalfOpen:
		g.state = cbOpen
		g.openedAt = time.Now().UTC()
		g.failures = g.cfg.FailureThreshold
		g.successes = 0
		g.halfInFlight = false
	}
}
