// Package httpx provides the HTTP intake surface for the scan pipeline.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archlens/scan-api/internal/domain/model"
	apperrors "github.com/archlens/scan-api/internal/errors"
	"github.com/archlens/scan-api/internal/service"
)

// Webhook request headers, following the GitHub delivery conventions.
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderSignature = "X-Hub-Signature-256"
)

const defaultHandlerTimeout = 5 * time.Second

// WebhookHandlers provides the HTTP handler for inbound repository events.
type WebhookHandlers struct {
	Svc      *service.WebhookService
	Verifier *service.SignatureVerifier
	Logger   *slog.Logger

	// Timeout bounds delivery processing; zero means the 5s default.
	Timeout time.Duration
	// MaxBodyBytes bounds the accepted body size; zero means 1 MiB.
	MaxBodyBytes int64
}

// WebhookHandlersOptions configures webhook handlers.
type WebhookHandlersOptions struct {
	WebhookService *service.WebhookService
	Verifier       *service.SignatureVerifier
	Logger         *slog.Logger
	Timeout        time.Duration
	MaxBodyBytes   int64
}

// NewWebhookHandlers constructs WebhookHandlers with explicit dependency injection.
func NewWebhookHandlers(opts WebhookHandlersOptions) *WebhookHandlers {
	return &WebhookHandlers{
		Svc:          opts.WebhookService,
		Verifier:     opts.Verifier,
		Logger:       opts.Logger,
		Timeout:      opts.Timeout,
		MaxBodyBytes: opts.MaxBodyBytes,
	}
}

func (h *WebhookHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Receive handles one POSTed webhook delivery.
//
// Responses: 200 with a HandlerResult body for anything accepted (including
// benign no-ops and duplicates), 401 plain text on signature mismatch, 400 on
// a malformed body, 413 when the body exceeds the size limit, 500 when storage
// fails critically.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		WriteError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	// Signature check runs over the exact body bytes before anything else.
	if h.Verifier != nil {
		if verifyErr := h.Verifier.Verify(r.Context(), body, r.Header.Get(HeaderSignature)); verifyErr != nil {
			h.logger().WarnContext(r.Context(), "webhook signature rejected",
				"delivery_id", r.Header.Get(HeaderDelivery),
				"error", verifyErr,
			)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			if _, writeErr := io.WriteString(w, "signature verification failed"); writeErr != nil {
				return
			}
			return
		}
	}

	if !json.Valid(body) {
		WriteError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	ev := model.InboundEvent{
		Type:       model.ParseEventType(r.Header.Get(HeaderEvent)),
		DeliveryID: deliveryID(r),
		RawPayload: body,
		ReceivedAt: time.Now().UTC(),
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := h.Svc.Process(ctx, ev)
	if err != nil {
		h.logger().ErrorContext(ctx, "webhook processing failed",
			"delivery_id", ev.DeliveryID,
			"event_type", ev.Type,
			"error", err,
		)
		// A payload that does not match its declared event type is the
		// sender's fault, not a server failure.
		if apperrors.IsValidation(err) {
			WriteError(w, http.StatusBadRequest, "request body does not match the event type")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *WebhookHandlers) readBody(r *http.Request) ([]byte, error) {
	maxBytes := h.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBytes))
}

// deliveryID returns the sender-assigned delivery id, generating one when the
// header is absent so the audit log still gets a unique key.
func deliveryID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(HeaderDelivery)); id != "" {
		return id
	}
	return "generated-" + uuid.NewString()
}
