package invoice

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"invoicer/kit/db"
	"invoicer/kit/payment_gateway"
)

// Options carry the fixed gateway parameters applied to every creation call.
type Options struct {
	Currency           string
	InvoiceDuration    int64
	SuccessRedirectURL string
	FailureRedirectURL string
	CallTimeout        time.Duration
}

type Service struct {
	gateway    GatewayContract
	bus        PublisherContract
	store      StoreContract
	repository RepositoryContract
	opts       Options
}

func NewService(gateway GatewayContract, bus PublisherContract, store StoreContract, repo RepositoryContract, opts Options) *Service {
	if opts.Currency == "" {
		opts.Currency = "IDR"
	}
	if opts.InvoiceDuration <= 0 {
		opts.InvoiceDuration = 86400
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	return &Service{
		gateway:    gateway,
		bus:        bus,
		store:      store,
		repository: repo,
		opts:       opts,
	}
}

// Create opens an invoice at the gateway under a fresh external_id and
// mirrors the returned fields into the local store. The store is only touched
// after the gateway call succeeds.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Invoice, error) {
	if err := ValidateCreateRequest(req); err != nil {
		log.Printf("layer=service component=invoice method=Create amount=%d payer_email=%s err=%v", req.Amount, req.PayerEmail, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}

	externalID := uuid.NewString()

	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	gwInv, err := s.gateway.CreateInvoice(callCtx, payment_gateway.CreateInvoiceRequest{
		ExternalID:         externalID,
		Amount:             req.Amount,
		PayerEmail:         req.PayerEmail,
		Description:        req.Description,
		Currency:           s.opts.Currency,
		InvoiceDuration:    s.opts.InvoiceDuration,
		SuccessRedirectURL: s.opts.SuccessRedirectURL,
		FailureRedirectURL: s.opts.FailureRedirectURL,
	})
	if err != nil {
		log.Printf("layer=service component=invoice method=Create external_id=%s err=%v", externalID, err)
		return nil, err
	}

	status, perr := ParseStatus(gwInv.Status)
	if perr != nil {
		status = StatusPending
	}

	inv := &Invoice{
		ExternalID:  gwInv.ExternalID,
		ProductID:   req.ProductID,
		Amount:      gwInv.Amount,
		PayerEmail:  gwInv.PayerEmail,
		Description: gwInv.Description,
		InvoiceURL:  gwInv.InvoiceURL,
		Status:      status,
		CreatedAt:   gwInv.Created,
		UpdatedAt:   gwInv.Updated,
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = inv.CreatedAt
	}

	if err := s.repository.Save(ctx, inv); err != nil {
		log.Printf("layer=service component=invoice method=Create external_id=%s err=%v", inv.ExternalID, err)
		return nil, err
	}

	evt := ToInvoiceCreatedEvent(inv)
	if s.store != nil {
		_ = s.store.Append(ctx, inv.ExternalID, evt)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, evt)
	}
	return inv, nil
}

// Reconcile applies a webhook-reported status. Replaying the current status
// only refreshes updated_at; a transition away from a terminal status is
// ignored so a stale delivery can never downgrade a settled invoice.
func (s *Service) Reconcile(ctx context.Context, externalID string, next Status) (*Invoice, error) {
	inv, err := s.repository.Get(ctx, externalID)
	if err != nil {
		log.Printf("layer=service component=invoice method=Reconcile external_id=%s err=%v", externalID, err)
		return nil, err
	}

	if inv.Status == next {
		inv.UpdatedAt = time.Now().UTC()
		if err := s.repository.Save(ctx, inv); err != nil {
			log.Printf("layer=service component=invoice method=Reconcile external_id=%s err=%v", externalID, err)
			return nil, err
		}
		return inv, nil
	}

	if !CanTransition(inv.Status, next) {
		log.Printf("layer=service component=invoice method=Reconcile external_id=%s status=%s next=%s err=stale transition ignored", externalID, inv.Status, next)
		return inv, nil
	}

	inv.Status = next
	inv.UpdatedAt = time.Now().UTC()
	if err := s.repository.Save(ctx, inv); err != nil {
		log.Printf("layer=service component=invoice method=Reconcile external_id=%s err=%v", externalID, err)
		return nil, err
	}

	if evt, ok := ToTerminalEvent(inv); ok {
		if s.store != nil {
			_ = s.store.Append(ctx, inv.ExternalID, evt)
		}
		if s.bus != nil {
			s.bus.Publish(ctx, evt)
		}
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, externalID string) (*Invoice, error) {
	inv, err := s.repository.Get(ctx, externalID)
	if err != nil {
		log.Printf("layer=service component=invoice method=Get external_id=%s err=%v", externalID, err)
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Invoice, error) {
	invs, err := s.repository.ListAll(ctx)
	if err != nil {
		log.Printf("layer=service component=invoice method=ListAll err=%v", err)
		return nil, err
	}
	return invs, nil
}
