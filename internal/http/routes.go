package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/archlens/scan-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Webhooks *service.WebhookService
	Verifier *service.SignatureVerifier

	// Configuration
	HandlerTimeout time.Duration
	MaxBodyBytes   int64
	Logger         *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	webhookHandlers := NewWebhookHandlers(WebhookHandlersOptions{
		WebhookService: services.Webhooks,
		Verifier:       services.Verifier,
		Logger:         services.Logger,
		Timeout:        services.HandlerTimeout,
		MaxBodyBytes:   services.MaxBodyBytes,
	})

	mux.Handle("POST /api/webhooks/github", http.HandlerFunc(webhookHandlers.Receive))
	mux.Handle("OPTIONS /api/webhooks/github", http.HandlerFunc(Preflight))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = CORS()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
