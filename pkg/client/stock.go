package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// StockService groups the /stock endpoints.
type StockService struct {
	r resource
}

// Stock returns the stock summary endpoints.
func (c *Client) Stock() StockService {
	return StockService{r: resource{c: c, base: "/stock"}}
}

// Summary returns per-category stock totals.
func (s StockService) Summary(ctx context.Context) (*domain.StockSummary, error) {
	body, err := s.r.get(ctx, "/summary", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Stock.Summary: %w", err)
	}
	return &domain.StockSummary{
		Categories: unwrapList[domain.StockCategory](body, listOf("categories")...),
		Totals:     unwrapOr(body, domain.StockTotals{}, listOf("totals")...),
	}, nil
}

// CategorySKUs returns the models purchased into a category.
func (s StockService) CategorySKUs(ctx context.Context, category string) ([]domain.SKU, error) {
	body, err := s.r.get(ctx, "/category"+id(category)+"/skus", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Stock.CategorySKUs: %w", err)
	}
	return unwrapList[domain.SKU](body, listOf("skus")...), nil
}

// CategorySales returns the invoice lines sold out of a category.
func (s StockService) CategorySales(ctx context.Context, category string, d DateRange) ([]domain.CategorySale, error) {
	q := newQuery().dates(d).values()
	body, err := s.r.get(ctx, "/category"+id(category)+"/sales", q)
	if err != nil {
		return nil, fmt.Errorf("client.Stock.CategorySales: %w", err)
	}
	return unwrapList[domain.CategorySale](body, listOf("sales")...), nil
}
