package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicer/internal/invoice"
	"invoicer/kit/db"
)

func TestWebhook_Notification(t *testing.T) {
	const token = "cb-secret"

	mkReq := func(t *testing.T, body any, withToken bool) *http.Request {
		t.Helper()
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		if withToken {
			req.Header.Set("X-Callback-Token", token)
		}
		return req
	}

	var tests = []struct {
		name       string
		req        func(t *testing.T) *http.Request
		handler    func() (*Webhook, *invoiceServiceMock)
		assertResp func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock)
	}{
		{
			name: "missing token returns 401 without touching state",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "PAID"}, false)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusUnauthorized, rr.Code)
				sm.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "wrong token returns 401",
			req: func(t *testing.T) *http.Request {
				req := mkReq(t, map[string]any{"external_id": "ext-1", "status": "PAID"}, false)
				req.Header.Set("X-Callback-Token", "wrong")
				return req
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusUnauthorized, rr.Code)
				sm.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "invalid json returns 400",
			req: func(t *testing.T) *http.Request {
				_ = t
				req := httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader([]byte("{")))
				req.Header.Set("X-Callback-Token", token)
				return req
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
			},
		},
		{
			name: "missing external_id returns 400",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"status": "PAID"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
			},
		},
		{
			name: "unknown status returns 400",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "SETTLING"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
				sm.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "unknown invoice returns 404",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "PAID"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				sm.On("Reconcile", mock.Anything, "ext-1", invoice.StatusPaid).Return(nil, db.ErrNotFound)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusNotFound, rr.Code)
				var got map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Equal(t, "Invoice not found", got["message"])
			},
		},
		{
			name: "paid invoice returns success body",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "PAID", "paid_amount": 50000, "payment_channel": "BANK"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				sm.On("Reconcile", mock.Anything, "ext-1", invoice.StatusPaid).
					Return(&invoice.Invoice{ExternalID: "ext-1", Status: invoice.StatusPaid}, nil)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusOK, rr.Code)
				var got map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Equal(t, "success", got["status"])
				require.Equal(t, "invoice has been paid", got["message"])
			},
		},
		{
			name: "expired invoice returns not paid body",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "EXPIRED"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				sm.On("Reconcile", mock.Anything, "ext-1", invoice.StatusExpired).
					Return(&invoice.Invoice{ExternalID: "ext-1", Status: invoice.StatusExpired}, nil)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusOK, rr.Code)
				var got map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.Equal(t, "error", got["status"])
				require.Equal(t, "invoice is not paid", got["message"])
			},
		},
		{
			name: "lowercase status is accepted",
			req: func(t *testing.T) *http.Request {
				return mkReq(t, map[string]any{"external_id": "ext-1", "status": "paid"}, true)
			},
			handler: func() (*Webhook, *invoiceServiceMock) {
				sm := new(invoiceServiceMock)
				sm.On("Reconcile", mock.Anything, "ext-1", invoice.StatusPaid).
					Return(&invoice.Invoice{ExternalID: "ext-1", Status: invoice.StatusPaid}, nil)
				return NewWebhook(sm, nil, token), sm
			},
			assertResp: func(t *testing.T, rr *httptest.ResponseRecorder, sm *invoiceServiceMock) {
				require.Equal(t, http.StatusOK, rr.Code)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, sm := tt.handler()
			rr := httptest.NewRecorder()
			h.Notification(rr, tt.req(t))
			tt.assertResp(t, rr, sm)
		})
	}
}

type webhookMetricsMock struct {
	mock.Mock
}

func (m *webhookMetricsMock) WebhookReceived() {
	m.Called()
}

func TestWebhook_NotificationCountsAuthenticatedDeliveries(t *testing.T) {
	t.Parallel()

	sm := &invoiceServiceMock{}
	sm.On("Reconcile", mock.Anything, "ext-1", invoice.StatusPaid).
		Return(&invoice.Invoice{ExternalID: "ext-1", Status: invoice.StatusPaid}, nil)
	mm := &webhookMetricsMock{}
	mm.On("WebhookReceived").Return()

	h := NewWebhook(sm, mm, "cb-secret")

	body := bytes.NewReader([]byte(`{"external_id":"ext-1","status":"PAID"}`))
	req := httptest.NewRequest(http.MethodPost, "/webhook/notification", body)
	req.Header.Set("X-Callback-Token", "cb-secret")
	rr := httptest.NewRecorder()
	h.Notification(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mm.AssertNumberOfCalls(t, "WebhookReceived", 1)

	// An unauthenticated delivery is rejected before it is counted.
	rr = httptest.NewRecorder()
	h.Notification(rr, httptest.NewRequest(http.MethodPost, "/webhook/notification", bytes.NewReader(nil)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	mm.AssertNumberOfCalls(t, "WebhookReceived", 1)
}
