// Package viacep implements domain.AddressLookup against the ViaCEP API.
package viacep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
)

// Client queries the ViaCEP postal-code lookup service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a ViaCEP client. baseURL is the service root without a
// trailing slash, e.g. "https://viacep.com.br/ws".
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup resolves a normalized 8-digit CEP. A registered CEP yields the
// address record; an unknown CEP yields domain.ErrCEPNotFound.
func (c *Client) Lookup(ctx context.Context, cep string) (domain.Address, error) {
	u := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("error").Inc()
		return domain.Address{}, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.LookupRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.Address{}, fmt.Errorf("viacep API error: status %d: %s", resp.StatusCode, body)
	}

	var vr response
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		c.metrics.LookupRequests.WithLabelValues("error").Inc()
		return domain.Address{}, fmt.Errorf("decode response: %w", err)
	}

	if bool(vr.Erro) {
		c.metrics.LookupRequests.WithLabelValues("miss").Inc()
		return domain.Address{}, fmt.Errorf("%w: %s", domain.ErrCEPNotFound, cep)
	}

	c.metrics.LookupRequests.WithLabelValues("hit").Inc()
	return domain.Address{
		Street: strings.TrimSpace(vr.Logradouro),
		City:   strings.TrimSpace(vr.Localidade),
		State:  strings.ToUpper(strings.TrimSpace(vr.UF)),
		CEP:    cep,
	}, nil
}

// ViaCEP API response types.

type response struct {
	Logradouro string  `json:"logradouro"`
	Localidade string  `json:"localidade"`
	UF         string  `json:"uf"`
	Erro       errFlag `json:"erro"`
}

// errFlag tolerates both encodings ViaCEP has used for the not-found marker:
// the boolean true and the string "true".
type errFlag bool

func (e *errFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	*e = errFlag(string(trimmed) == "true")
	return nil
}
