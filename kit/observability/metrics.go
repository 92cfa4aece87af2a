package observability

import "sync/atomic"

type Metrics struct {
	InvoicesCreated  atomic.Int64
	InvoicesPaid     atomic.Int64
	InvoicesExpired  atomic.Int64
	InvoicesFailed   atomic.Int64
	WebhooksReceived atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) InvoicesCreatedAdd(n int64) {
	m.InvoicesCreated.Add(n)
}

func (m *Metrics) InvoicesPaidAdd(n int64) {
	m.InvoicesPaid.Add(n)
}

func (m *Metrics) InvoicesExpiredAdd(n int64) {
	m.InvoicesExpired.Add(n)
}

func (m *Metrics) InvoicesFailedAdd(n int64) {
	m.InvoicesFailed.Add(n)
}

func (m *Metrics) WebhooksReceivedAdd(n int64) {
	m.WebhooksReceived.Add(n)
}
