package invoice

import (
	"time"

	"invoicer/internal/events"
	"invoicer/kit/broker"
)

func ToCreateRequest(productID string, amount int64, payerEmail, description string) CreateRequest {
	return CreateRequest{ProductID: productID, Amount: amount, PayerEmail: payerEmail, Description: description}
}

func ToInvoiceCreatedEvent(inv *Invoice) events.InvoiceCreated {
	return events.InvoiceCreated{
		ExternalID:  inv.ExternalID,
		ProductID:   inv.ProductID,
		Amount:      inv.Amount,
		PayerEmail:  inv.PayerEmail,
		Description: inv.Description,
		At:          time.Now().UTC(),
	}
}

func ToInvoicePaidEvent(inv *Invoice) events.InvoicePaid {
	return events.InvoicePaid{ExternalID: inv.ExternalID, Amount: inv.Amount, PayerEmail: inv.PayerEmail, At: time.Now().UTC()}
}

func ToInvoiceExpiredEvent(inv *Invoice) events.InvoiceExpired {
	return events.InvoiceExpired{ExternalID: inv.ExternalID, PayerEmail: inv.PayerEmail, At: time.Now().UTC()}
}

func ToInvoiceFailedEvent(inv *Invoice) events.InvoiceFailed {
	return events.InvoiceFailed{ExternalID: inv.ExternalID, PayerEmail: inv.PayerEmail, At: time.Now().UTC()}
}

// ToTerminalEvent maps a terminal status onto its lifecycle event. The bool
// is false for PENDING, which carries no event.
func ToTerminalEvent(inv *Invoice) (broker.Event, bool) {
	switch inv.Status {
	case StatusPaid:
		return ToInvoicePaidEvent(inv), true
	case StatusExpired:
		return ToInvoiceExpiredEvent(inv), true
	case StatusFailed:
		return ToInvoiceFailedEvent(inv), true
	default:
		return nil, false
	}
}
