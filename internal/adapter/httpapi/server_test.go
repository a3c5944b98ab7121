package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brastec/rep-locator/internal/adapter/httpapi"
	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/reply"
)

type mockResolver struct {
	res    domain.Resolution
	gotCEP string
	called int
}

func (m *mockResolver) Resolve(_ context.Context, rawCEP string) domain.Resolution {
	m.called++
	m.gotCEP = rawCEP
	return m.res
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

var testFormatter = reply.Formatter{
	SupportName:  "Everson",
	SupportPhone: "+55 (48) 9211-0383",
	CutoffKm:     200,
}

func newTestServer(resolver *mockResolver, readyErr error) *httpapi.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpapi.NewServer(":0", resolver, testFormatter, &mockReadiness{err: readyErr}, logger)
}

func postWebhook(srv *httpapi.Server, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Reply
}

func TestWebhookPassesCEPToResolver(t *testing.T) {
	resolver := &mockResolver{res: domain.Resolution{
		Outcome:   domain.OutcomeFixed,
		Territory: "o Paraná",
		Assignee:  &domain.Assignment{Name: "Fabrício", WhatsApp: "5542999211765"},
	}}
	srv := newTestServer(resolver, nil)

	rec := postWebhook(srv, `{"variables":{"CEP_usuario":"80010-000"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "80010-000", resolver.gotCEP)
	assert.Contains(t, decodeReply(t, rec), "📍 *Fabrício*")
}

func TestWebhookFailureStillReturns200(t *testing.T) {
	resolver := &mockResolver{res: domain.Resolution{
		Outcome: domain.OutcomeFailure,
		Stage:   domain.StageInvalidCEP,
	}}
	srv := newTestServer(resolver, nil)

	rec := postWebhook(srv, `{"variables":{"CEP_usuario":"abc"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "❌ CEP inválido ou incompleto. Tente novamente.", decodeReply(t, rec))
}

func TestWebhookMalformedBodyReturns200(t *testing.T) {
	resolver := &mockResolver{}
	srv := newTestServer(resolver, nil)

	rec := postWebhook(srv, `{not json`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "❌ CEP inválido ou incompleto. Tente novamente.", decodeReply(t, rec))
	assert.Zero(t, resolver.called, "resolver not invoked on malformed payload")
}

func TestWebhookMissingVariablesTreatedAsInvalid(t *testing.T) {
	resolver := &mockResolver{res: domain.Resolution{
		Outcome: domain.OutcomeFailure,
		Stage:   domain.StageInvalidCEP,
	}}
	srv := newTestServer(resolver, nil)

	rec := postWebhook(srv, `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resolver.called)
	assert.Empty(t, resolver.gotCEP)
}

func TestWebhookRejectsGETWith200Reply(t *testing.T) {
	srv := newTestServer(&mockResolver{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/webhook", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "❌ Método não permitido. Use POST.", decodeReply(t, rec))
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockResolver{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockResolver{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockResolver{}, fmt.Errorf("roster empty"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "roster empty", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockResolver{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
