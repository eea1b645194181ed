package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// Dashboard returns the landing-screen report.
func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	r := resource{c: c, base: "/reports"}
	body, err := r.get(ctx, "/dashboard", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	d := unwrapOr(body, domain.Dashboard{}, path("data"), whole())
	return &d, nil
}
