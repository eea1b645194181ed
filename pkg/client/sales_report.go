package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// SalesParams filters the sales report.
type SalesParams struct {
	DateRange
	GroupBy  string
	Category string
}

func (p SalesParams) encode() url.Values {
	return newQuery().
		dates(p.DateRange).
		str("groupBy", p.GroupBy).
		str("category", p.Category).
		values()
}

// SalesReport returns sales totals for a period.
func (c *Client) SalesReport(ctx context.Context, p SalesParams) (*domain.SalesReport, error) {
	r := resource{c: c, base: "/reports"}
	body, err := r.get(ctx, "/sales", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.SalesReport: %w", err)
	}
	rep := unwrapOr(body, domain.SalesReport{}, path("data"), whole())
	if rep.Items == nil {
		rep.Items = []domain.SalesLine{}
	}
	return &rep, nil
}
