package config

import "strings"

// WebhookConfig contains webhook intake configuration.
type WebhookConfig struct {
	// Secret is the shared HMAC-SHA256 secret for signature verification.
	// When empty, signature verification is disabled and every delivery is
	// accepted unauthenticated.
	Secret string `env:"WEBHOOK_SECRET" envDefault:""`
}

// Sanitize applies guardrails to webhook configuration values.
func (w *WebhookConfig) Sanitize() {
	w.Secret = strings.TrimSpace(w.Secret)
}

// SignatureEnabled reports whether deliveries will have signatures checked.
func (w *WebhookConfig) SignatureEnabled() bool {
	return w.Secret != ""
}
