package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	apperrors "github.com/archlens/scan-api/internal/errors"
)

const signaturePrefix = "sha256="

// SignatureVerifier authenticates inbound webhook deliveries using an
// HMAC-SHA256 shared secret over the exact request body bytes.
//
// Policy, deliberately permissive and preserved as a documented trade-off:
//   - No secret configured: every delivery is accepted unauthenticated.
//   - Secret configured but no signature header sent: the delivery is
//     accepted unauthenticated with a warning log, so senders that have not
//     yet enabled signing keep working.
//   - Secret and header both present: a mismatch rejects the delivery before
//     anything is recorded.
type SignatureVerifier struct {
	secret string
	logger *slog.Logger
}

// NewSignatureVerifier constructs a SignatureVerifier. An empty secret
// disables verification entirely.
func NewSignatureVerifier(secret string, logger *slog.Logger) *SignatureVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignatureVerifier{secret: secret, logger: logger}
}

// Enabled reports whether a shared secret is configured.
func (v *SignatureVerifier) Enabled() bool {
	return v.secret != ""
}

// Verify checks the "sha256=<hex>" signature header against the HMAC of body.
// It returns an unauthorized AppError on mismatch and nil when the delivery
// is acceptable under the policy above.
func (v *SignatureVerifier) Verify(ctx context.Context, body []byte, header string) error {
	if v.secret == "" {
		return nil
	}
	if strings.TrimSpace(header) == "" {
		v.logger.WarnContext(ctx, "delivery accepted without signature despite configured secret")
		return nil
	}

	if !strings.HasPrefix(header, signaturePrefix) {
		return apperrors.Unauthorized("invalid signature format")
	}

	sent, err := hex.DecodeString(header[len(signaturePrefix):])
	if err != nil {
		return apperrors.Unauthorized("invalid signature hex encoding")
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	want := mac.Sum(nil)

	if !hmac.Equal(sent, want) {
		return apperrors.Unauthorized("signature verification failed")
	}
	return nil
}
