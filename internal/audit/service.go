package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"invoicer/internal/events"
	"invoicer/kit/broker"
	"invoicer/kit/observability"
)

// Service keeps an append-only audit trail of invoice lifecycle events, one
// JSON line per record when a file is configured.
type Service struct {
	logger *observability.Logger
	fileMu sync.Mutex
	f      *os.File
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func NewServiceWithFile(logger *observability.Logger, path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if logger != nil {
			logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if logger != nil {
			logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	return &Service{logger: logger, f: f}, nil
}

func (s *Service) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	if err != nil && s.logger != nil {
		s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Close", "error", err.Error())
	}
	s.f = nil
	return err
}

func (s *Service) Record(ctx context.Context, eventName string, fields map[string]any) {
	if s.logger == nil {
		return
	}
	s.logger.Info("audit", "event", eventName, "fields", fields)

	s.fileMu.Lock()
	if s.f != nil {
		line := map[string]any{
			"at":     time.Now().UTC(),
			"event":  eventName,
			"fields": fields,
		}
		b, err := json.Marshal(line)
		if err != nil {
			s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", eventName, "error", err.Error())
		} else {
			if _, err := s.f.Write(append(b, '\n')); err != nil {
				s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", eventName, "error", err.Error())
			}
		}
	}
	s.fileMu.Unlock()
}

// HandleEvent is subscribed on the bus for every invoice event.
func (s *Service) HandleEvent(ctx context.Context, evt broker.Event) error {
	fields := map[string]any{"type": fmt.Sprintf("%T", evt)}
	switch e := evt.(type) {
	case events.InvoiceCreated:
		fields["external_id"] = e.ExternalID
		fields["amount"] = e.Amount
		fields["payer_email"] = e.PayerEmail
		if e.ProductID != "" {
			fields["product_id"] = e.ProductID
		}
	case events.InvoicePaid:
		fields["external_id"] = e.ExternalID
		fields["amount"] = e.Amount
		fields["payer_email"] = e.PayerEmail
	case events.InvoiceExpired:
		fields["external_id"] = e.ExternalID
		fields["payer_email"] = e.PayerEmail
	case events.InvoiceFailed:
		fields["external_id"] = e.ExternalID
		fields["payer_email"] = e.PayerEmail
	}

	s.Record(ctx, evt.Name(), fields)
	return nil
}
