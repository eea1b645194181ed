package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// OrderListParams filters CustomerConnect orders.
type OrderListParams struct {
	Page
	DateRange
	Status         string
	Vendor         string
	Search         string
	StockProcessed *bool
}

func (p OrderListParams) encode() url.Values {
	return newQuery().
		str("status", p.Status).
		str("vendor", p.Vendor).
		str("search", p.Search).
		bool("stockProcessed", p.StockProcessed).
		dates(p.DateRange).
		page(p.Page).
		values()
}

// OrderList is a page of orders.
type OrderList struct {
	Orders     []domain.Order
	Pagination domain.Pagination
}

// OrdersService groups the /customerconnect/orders endpoints.
type OrdersService struct {
	r resource
}

// Orders returns the CustomerConnect order endpoints.
func (c *Client) Orders() OrdersService {
	return OrdersService{r: resource{c: c, base: "/customerconnect/orders"}}
}

// List fetches orders matching p.
func (s OrdersService) List(ctx context.Context, p OrderListParams) (*OrderList, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.Orders.List: %w", err)
	}
	return &OrderList{
		Orders:     unwrapList[domain.Order](body, listOf("orders")...),
		Pagination: unwrapOr(body, domain.Pagination{}, paginationChain...),
	}, nil
}

// ByNumber fetches one order.
func (s OrdersService) ByNumber(ctx context.Context, number string) (*domain.Order, error) {
	body, err := s.r.get(ctx, id(number), nil)
	if err != nil {
		return nil, fmt.Errorf("client.Orders.ByNumber: %w", err)
	}
	o := unwrapOr(body, domain.Order{}, append(nested("order"), whole())...)
	return &o, nil
}

// Stats returns order totals.
func (s OrdersService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	body, err := s.r.get(ctx, "/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Orders.Stats: %w", err)
	}
	st := unwrapOr(body, domain.OrderStats{}, nested("stats")...)
	return &st, nil
}
