package events

import "time"

type InvoiceCreated struct {
	ExternalID  string    `json:"external_id"`
	ProductID   string    `json:"product_id,omitempty"`
	Amount      int64     `json:"amount"`
	PayerEmail  string    `json:"payer_email"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

func (InvoiceCreated) Name() string { return "invoice.created" }

func (e InvoiceCreated) PartitionKey() string { return e.ExternalID }

type InvoicePaid struct {
	ExternalID string    `json:"external_id"`
	Amount     int64     `json:"amount"`
	PayerEmail string    `json:"payer_email"`
	At         time.Time `json:"at"`
}

func (InvoicePaid) Name() string { return "invoice.paid" }

func (e InvoicePaid) PartitionKey() string { return e.ExternalID }

type InvoiceExpired struct {
	ExternalID string    `json:"external_id"`
	PayerEmail string    `json:"payer_email"`
	At         time.Time `json:"at"`
}

func (InvoiceExpired) Name() string { return "invoice.expired" }

func (e InvoiceExpired) PartitionKey() string { return e.ExternalID }

type InvoiceFailed struct {
	ExternalID string    `json:"external_id"`
	PayerEmail string    `json:"payer_email"`
	At         time.Time `json:"at"`
}

func (InvoiceFailed) Name() string { return "invoice.failed" }

func (e InvoiceFailed) PartitionKey() string { return e.ExternalID }
