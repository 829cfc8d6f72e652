package llama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultPoolsURL = "https://yields.llama.fi/pools"
	defaultTimeout  = 30 * time.Second

	maxErrorBody = 512
)

// ErrBadStatus indica que la API respondió pero sin status "success".
var ErrBadStatus = errors.New("api returned non-success status")

// Client es el HTTP client de la API de yields de DefiLlama.
// No reintenta: un fallo aborta el fetch y el dataset previo queda intacto.
type Client struct {
	http     *http.Client
	poolsURL string
}

// NewClient crea un Client contra poolsURL con el timeout dado.
// Si poolsURL está vacío usa el endpoint de producción; si timeout <= 0, 30s.
func NewClient(poolsURL string, timeout time.Duration) *Client {
	if poolsURL == "" {
		poolsURL = defaultPoolsURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		poolsURL: poolsURL,
	}
}

// get hace un GET y decodifica el body JSON en out. Cualquier status fuera de 2xx es un error.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("http status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
