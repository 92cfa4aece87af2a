package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"invoicer/internal/invoice"
	"invoicer/kit/db"
)

type WebhookServiceContract interface {
	Reconcile(ctx context.Context, externalID string, next invoice.Status) (*invoice.Invoice, error)
}

type WebhookMetricsContract interface {
	WebhookReceived()
}

type Webhook struct {
	invoices WebhookServiceContract
	metrics  WebhookMetricsContract
	token    string
}

// NewWebhook wires the gateway callback endpoint. An empty token disables the
// X-Callback-Token check, which is only sensible in tests and local setups.
func NewWebhook(invoiceSvc WebhookServiceContract, metrics WebhookMetricsContract, token string) *Webhook {
	return &Webhook{invoices: invoiceSvc, metrics: metrics, token: token}
}

// notificationReq is decoded leniently: gateway callbacks carry many vendor
// fields we do not care about.
type notificationReq struct {
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

func (h *Webhook) Notification(w http.ResponseWriter, r *http.Request) {
	if h.token != "" {
		got := r.Header.Get("X-Callback-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			log.Printf("layer=handler component=webhook method=Notification err=invalid callback token")
			respondError(w, http.StatusUnauthorized, "invalid callback token")
			return
		}
	}

	if h.metrics != nil {
		h.metrics.WebhookReceived()
	}

	var req notificationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("layer=handler component=webhook method=Notification err=%v", err)
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ExternalID == "" {
		log.Printf("layer=handler component=webhook method=Notification err=missing external_id")
		respondError(w, http.StatusBadRequest, "missing external_id")
		return
	}
	next, err := invoice.ParseStatus(strings.ToUpper(req.Status))
	if err != nil {
		log.Printf("layer=handler component=webhook method=Notification external_id=%s err=%v", req.ExternalID, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.invoices.Reconcile(r.Context(), req.ExternalID, next)
	if err != nil {
		log.Printf("layer=handler component=webhook method=Notification external_id=%s err=%v", req.ExternalID, err)
		if db.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if inv.Status == invoice.StatusPaid {
		respond(w, http.StatusOK, map[string]any{"status": "success", "message": "invoice has been paid"})
		return
	}
	respond(w, http.StatusOK, map[string]any{"status": "error", "message": "invoice is not paid"})
}
