package llama

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// FetchPools implementa ports.PoolProvider con una sola request a /pools.
func (c *Client) FetchPools(ctx context.Context) ([]domain.Pool, error) {
	slog.Info("fetching pools", "url", c.poolsURL)

	var resp poolsResponse
	if err := c.get(ctx, c.poolsURL, &resp); err != nil {
		return nil, fmt.Errorf("llama.FetchPools: %w", err)
	}
	if resp.Status != statusSuccess {
		return nil, fmt.Errorf("llama.FetchPools: status %q: %w", resp.Status, ErrBadStatus)
	}

	pools := resp.Data
	if pools == nil {
		pools = []domain.Pool{}
	}
	slog.Debug("pools fetched", "count", len(pools))
	return pools, nil
}
