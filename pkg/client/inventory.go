package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// GroupedItemsParams filters grouped inventory listings.
type GroupedItemsParams struct {
	Page
	DateRange
	Search   string
	Category string
	SortBy   string
}

func (p GroupedItemsParams) encode() url.Values {
	return newQuery().
		str("search", p.Search).
		str("category", p.Category).
		str("sortBy", p.SortBy).
		dates(p.DateRange).
		page(p.Page).
		values()
}

// GroupedItems returns CustomerConnect purchases grouped by item.
func (c *Client) GroupedItems(ctx context.Context, p GroupedItemsParams) ([]domain.GroupedItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/customerconnect/items/grouped", p.encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("client.GroupedItems: %w", err)
	}
	return unwrapList[domain.GroupedItem](body, itemsChain...), nil
}

// RouteStarGroupedItems returns RouteStar sales grouped by item.
func (c *Client) RouteStarGroupedItems(ctx context.Context, p GroupedItemsParams) ([]domain.GroupedItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/routestar/items/grouped", p.encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("client.RouteStarGroupedItems: %w", err)
	}
	return unwrapList[domain.GroupedItem](body, itemsChain...), nil
}
