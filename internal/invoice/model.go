package invoice

import (
	"fmt"
	"time"
)

// Status is the gateway vocabulary for an invoice's lifecycle position.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusExpired Status = "EXPIRED"
	StatusFailed  Status = "FAILED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusExpired, StatusFailed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusExpired || s == StatusFailed
}

// CanTransition reports whether a webhook may move an invoice from one status
// to another. Replaying the current status is always allowed; a terminal
// status never moves to a different one.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return from == StatusPending
}

type Invoice struct {
	ExternalID  string    `json:"external_id"`
	ProductID   string    `json:"product_id,omitempty"`
	Amount      int64     `json:"amount"`
	PayerEmail  string    `json:"payer_email"`
	Description string    `json:"description"`
	InvoiceURL  string    `json:"invoice_url"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
