package viacep

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/98900000/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cep": "98900-000",
			"logradouro": "",
			"localidade": "Santa Rosa",
			"uf": "RS"
		}`))
	}))
	defer srv.Close()

	addr, err := testClient(srv.URL).Lookup(context.Background(), "98900000")
	require.NoError(t, err)

	assert.Equal(t, "Santa Rosa", addr.City)
	assert.Equal(t, "RS", addr.State)
	assert.Empty(t, addr.Street)
	assert.Equal(t, "98900000", addr.CEP)
}

func TestLookup_NotFoundBool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrCEPNotFound)
}

func TestLookup_NotFoundStringEncoding(t *testing.T) {
	// ViaCEP switched the erro marker from boolean to string at one point;
	// both must be treated as not-found.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": "true"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrCEPNotFound)
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), "98900000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCEPNotFound)
}

func TestLookup_TrimsAndUppercases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logradouro": " Rua Coronel Niederauer ", "localidade": " Santa Maria ", "uf": "rs"}`))
	}))
	defer srv.Close()

	addr, err := testClient(srv.URL).Lookup(context.Background(), "97015121")
	require.NoError(t, err)
	assert.Equal(t, "Rua Coronel Niederauer", addr.Street)
	assert.Equal(t, "Santa Maria", addr.City)
	assert.Equal(t, "RS", addr.State)
}

func TestLookup_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Lookup(ctx, "98900000")
	assert.Error(t, err)
}
