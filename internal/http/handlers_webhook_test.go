package httpx

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/archlens/scan-api/internal/domain/model"
	"github.com/archlens/scan-api/internal/mocks"
	"github.com/archlens/scan-api/internal/service"
)

type routerMocks struct {
	projects *mocks.MockProjectRepository
	scans    *mocks.MockScanRepository
	events   *mocks.MockWebhookEventRepository
}

func newTestRouter(t *testing.T, secret string) (http.Handler, routerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := routerMocks{
		projects: mocks.NewMockProjectRepository(ctrl),
		scans:    mocks.NewMockScanRepository(ctrl),
		events:   mocks.NewMockWebhookEventRepository(ctrl),
	}

	svc, err := service.NewWebhookService(service.WebhookServiceOptions{
		Projects: m.projects,
		Scans:    m.scans,
		Events:   m.events,
	})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Webhooks: svc,
		Verifier: service.NewSignatureVerifier(secret, nil),
	})
	return router, m
}

func pushBody(t *testing.T) []byte {
	t.Helper()
	payload := model.PushPayload{
		Ref: "refs/heads/main",
		Repository: model.RepositoryRef{
			FullName: "acme/shop",
			HTMLURL:  "https://github.com/acme/shop",
		},
		Sender: model.SenderRef{Login: "octocat"},
	}
	c := model.PushCommit{ID: "abc123", Message: "fix checkout"}
	c.Author.Name = "Ada"
	payload.Commits = []model.PushCommit{c}

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func postWebhook(router http.Handler, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEndpoint_PushCreatesScan(t *testing.T) {
	router, m := newTestRouter(t, "")

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		Return(&model.Scan{ID: "scan-1", ScanType: model.ScanTypeWebhookTriggered,
			Status: model.ScanStatusQueued}, nil)

	rec := postWebhook(router, pushBody(t), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result model.HandlerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Processed)
	assert.Equal(t, "scan-1", result.ScanID)
	assert.Equal(t, 1, result.CommitCount)
}

func TestWebhookEndpoint_UnknownEventTypeIsAccepted(t *testing.T) {
	router, m := newTestRouter(t, "")

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	rec := postWebhook(router, []byte(`{"zen":"Design for failure."}`), map[string]string{
		HeaderEvent:    "ping",
		HeaderDelivery: "delivery-2",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.HandlerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Processed)
}

func TestWebhookEndpoint_MalformedJSONReturns400(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := postWebhook(router, []byte(`{"broken":`), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-3",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.Contains(t, body, "timestamp")
}

func TestWebhookEndpoint_MismatchedPayloadShapeReturns400(t *testing.T) {
	router, m := newTestRouter(t, "")

	// valid JSON, so the audit row is still recorded, but the wrong shape
	// for the declared event type
	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	rec := postWebhook(router, []byte(`{"commits":"not-an-array"}`), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-9",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.Contains(t, body, "timestamp")
}

func TestWebhookEndpoint_OversizedBodyReturns413(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, err := service.NewWebhookService(service.WebhookServiceOptions{
		Projects: mocks.NewMockProjectRepository(ctrl),
		Scans:    mocks.NewMockScanRepository(ctrl),
		Events:   mocks.NewMockWebhookEventRepository(ctrl),
	})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Webhooks:     svc,
		Verifier:     service.NewSignatureVerifier("", nil),
		MaxBodyBytes: 64,
	})

	rec := postWebhook(router, bytes.Repeat([]byte("a"), 128), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-10",
	})

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "64")
}

func TestWebhookEndpoint_BadSignatureReturns401(t *testing.T) {
	router, _ := newTestRouter(t, "topsecret")

	rec := postWebhook(router, pushBody(t), map[string]string{
		HeaderEvent:     "push",
		HeaderDelivery:  "delivery-4",
		HeaderSignature: "sha256=" + hex.EncodeToString(make([]byte, 32)),
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "signature verification failed")
}

func TestWebhookEndpoint_ValidSignatureIsAccepted(t *testing.T) {
	router, m := newTestRouter(t, "topsecret")
	body := pushBody(t)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	sig := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(&model.Project{ID: "proj-1", Name: "acme/shop"}, nil)
	m.scans.EXPECT().CreateWithQueueEntry(gomock.Any(), gomock.Any()).
		Return(&model.Scan{ID: "scan-1", ScanType: model.ScanTypeWebhookTriggered,
			Status: model.ScanStatusQueued}, nil)

	rec := postWebhook(router, body, map[string]string{
		HeaderEvent:     "push",
		HeaderDelivery:  "delivery-5",
		HeaderSignature: sig,
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookEndpoint_MissingSignatureHeaderIsAccepted(t *testing.T) {
	router, m := newTestRouter(t, "topsecret")

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)

	rec := postWebhook(router, []byte(`{"zen":"ok"}`), map[string]string{
		HeaderEvent:    "ping",
		HeaderDelivery: "delivery-6",
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookEndpoint_StorageFailureReturns500(t *testing.T) {
	router, m := newTestRouter(t, "")

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(true, nil)
	m.projects.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	rec := postWebhook(router, pushBody(t), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-7",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.Contains(t, body, "timestamp")
}

func TestWebhookEndpoint_DuplicateDeliveryReturns200(t *testing.T) {
	router, m := newTestRouter(t, "")

	m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(false, nil)

	rec := postWebhook(router, pushBody(t), map[string]string{
		HeaderEvent:    "push",
		HeaderDelivery: "delivery-8",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.HandlerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Processed)
	assert.Equal(t, "duplicate delivery", result.Message)
}

func TestWebhookEndpoint_PreflightReturnsCORSHeaders(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/webhooks/github", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), HeaderSignature)
}

func TestPreflightAnswersWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/webhooks/github", nil)
	rec := httptest.NewRecorder()
	Preflight(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), HeaderSignature)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
