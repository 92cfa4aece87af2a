package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"invoicer/cmd/web/config"
	"invoicer/cmd/web/handlers"
	"invoicer/cmd/web/validator"
	"invoicer/internal/audit"
	"invoicer/internal/events"
	"invoicer/internal/health"
	"invoicer/internal/invoice"
	"invoicer/internal/metrics"
	"invoicer/internal/notification"
	"invoicer/internal/product"
	"invoicer/kit/broker"
	"invoicer/kit/db"
	"invoicer/kit/observability"
	"invoicer/kit/payment_gateway"
)

func main() {
	_ = godotenv.Load()

	logger := observability.NewLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "error", err.Error())
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("data dir error", "error", err.Error())
		os.Exit(1)
	}

	metricsKit := observability.NewMetrics()
	bus := broker.New()
	defer bus.Close()

	store, err := db.NewWithFile(filepath.Join(cfg.DataDir, "events.jsonl"))
	if err != nil {
		logger.Error("event journal init error", "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	var client db.Client
	if cfg.DatabaseURL != "" {
		pgxClient, err := db.NewPgxClient(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres init error", "error", err.Error())
			os.Exit(1)
		}
		defer pgxClient.Close()
		client = pgxClient
	} else {
		invoicesPath := filepath.Join(cfg.DataDir, "invoices.json")
		mockClient, err := db.NewMockClient(
			db.WithInvoicesJSONFile(invoicesPath),
			db.WithInvoicesJSONPersistence(invoicesPath),
			db.WithProductsJSONFile(filepath.Join(cfg.DataDir, "products.json")),
		)
		if err != nil {
			logger.Error("mock db init error", "error", err.Error())
			os.Exit(1)
		}
		client = mockClient
		logger.Info("no DATABASE_URL set, using file-backed mock store", "path", invoicesPath)
	}

	auditSvc, err := audit.NewServiceWithFile(logger, filepath.Join(cfg.DataDir, "audit.jsonl"))
	if err != nil {
		logger.Error("audit init error", "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = auditSvc.Close() }()

	notificationSvc := notification.NewService(logger)
	metricsSvc := metrics.NewService(metricsKit)

	httpGateway := payment_gateway.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.GatewayTimeout)
	gateway := payment_gateway.NewCircuitBreakerGateway(
		httpGateway,
		payment_gateway.CircuitBreakerConfig{
			FailureThreshold: 3,
			SuccessThreshold: 1,
			OpenTimeout:      2 * time.Second,
		},
	)

	invoiceRepo := invoice.NewSQLRepository(client)
	invoiceSvc := invoice.NewService(gateway, bus, store, invoiceRepo, invoice.Options{
		SuccessRedirectURL: cfg.SuccessRedirectURL,
		FailureRedirectURL: cfg.FailureRedirectURL,
		CallTimeout:        cfg.GatewayTimeout,
	})
	productRepo := product.NewSQLRepository(client)
	productSvc := product.NewService(productRepo)

	healthSvc := health.NewService(2*time.Second, map[string]health.CheckFunc{
		"store": func(ctx context.Context) error {
			return client.Ping(ctx)
		},
		"gateway": httpGateway.Ping,
	})
	jsonV := validator.NewJSON()

	bus.Subscribe((events.InvoiceCreated{}).Name(), auditSvc.HandleEvent)
	bus.Subscribe((events.InvoicePaid{}).Name(), auditSvc.HandleEvent)
	bus.Subscribe((events.InvoiceExpired{}).Name(), auditSvc.HandleEvent)
	bus.Subscribe((events.InvoiceFailed{}).Name(), auditSvc.HandleEvent)

	bus.Subscribe((events.InvoiceCreated{}).Name(), metricsSvc.HandleEvent)
	bus.Subscribe((events.InvoicePaid{}).Name(), metricsSvc.HandleEvent)
	bus.Subscribe((events.InvoiceExpired{}).Name(), metricsSvc.HandleEvent)
	bus.Subscribe((events.InvoiceFailed{}).Name(), metricsSvc.HandleEvent)

	bus.Subscribe((events.InvoicePaid{}).Name(), notificationSvc.HandleInvoicePaid)
	bus.Subscribe((events.InvoiceExpired{}).Name(), notificationSvc.HandleInvoiceExpired)
	bus.Subscribe((events.InvoiceFailed{}).Name(), notificationSvc.HandleInvoiceFailed)

	if cfg.AMQPURL != "" {
		bridge, err := broker.NewAMQPBridge(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("amqp init error", "error", err.Error())
			os.Exit(1)
		}
		defer func() { _ = bridge.Close() }()
		bus.Subscribe((events.InvoiceCreated{}).Name(), bridge.Forward)
		bus.Subscribe((events.InvoicePaid{}).Name(), bridge.Forward)
		bus.Subscribe((events.InvoiceExpired{}).Name(), bridge.Forward)
		bus.Subscribe((events.InvoiceFailed{}).Name(), bridge.Forward)
		logger.Info("forwarding events to amqp", "exchange", cfg.AMQPExchange)
	}

	invoiceH := handlers.NewInvoice(jsonV, invoiceSvc, productSvc)
	webhookH := handlers.NewWebhook(invoiceSvc, metricsSvc, cfg.WebhookSecret)
	healthH := handlers.NewHealth(healthSvc)
	metricsH := handlers.NewMetrics(metricsSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /invoices", invoiceH.List)
	mux.HandleFunc("POST /create-invoice", invoiceH.Create)
	mux.HandleFunc("POST /webhook/notification", webhookH.Notification)
	mux.HandleFunc("GET /health", healthH.Handler)
	mux.HandleFunc("GET /metrics", metricsH.Handler)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}

	logger.Info("web server started", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("web server error", "error", err.Error())
	}
}
