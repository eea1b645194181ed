package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// RouteStarItemParams filters the RouteStar item master list.
type RouteStarItemParams struct {
	Page
	Search   string
	Category string
	ForUse   *bool
	ForSell  *bool
}

func (p RouteStarItemParams) encode() url.Values {
	return newQuery().
		str("search", p.Search).
		str("itemCategory", p.Category).
		bool("forUse", p.ForUse).
		bool("forSell", p.ForSell).
		page(p.Page).
		values()
}

// ItemFlags are the use/sell classification flags of a RouteStar item.
type ItemFlags struct {
	ForUse  *bool `json:"forUse,omitempty"`
	ForSell *bool `json:"forSell,omitempty"`
}

// RouteStarItemList is a page of RouteStar items.
type RouteStarItemList struct {
	Items      []domain.RouteStarItem
	Pagination domain.Pagination
}

// RouteStarItemsService groups the /routestar-items endpoints.
type RouteStarItemsService struct {
	r resource
}

// RouteStarItems returns the RouteStar item master endpoints.
func (c *Client) RouteStarItems() RouteStarItemsService {
	return RouteStarItemsService{r: resource{c: c, base: "/routestar-items"}}
}

// List fetches items matching p.
func (s RouteStarItemsService) List(ctx context.Context, p RouteStarItemParams) (*RouteStarItemList, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.RouteStarItems.List: %w", err)
	}
	return &RouteStarItemList{
		Items:      unwrapList[domain.RouteStarItem](body, itemsChain...),
		Pagination: unwrapOr(body, domain.Pagination{}, paginationChain...),
	}, nil
}

// UpdateFlags sets an item's use/sell flags. Nil flags are left unchanged.
func (s RouteStarItemsService) UpdateFlags(ctx context.Context, itemID string, flags ItemFlags) (*domain.RouteStarItem, error) {
	body, err := s.r.patch(ctx, id(itemID)+"/flags", flags)
	if err != nil {
		return nil, fmt.Errorf("client.RouteStarItems.UpdateFlags: %w", err)
	}
	it := unwrapOr(body, domain.RouteStarItem{}, path("data", "item"), path("data"))
	return &it, nil
}

// Stats returns item classification counts.
func (s RouteStarItemsService) Stats(ctx context.Context) (*domain.RouteStarItemStats, error) {
	body, err := s.r.get(ctx, "/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("client.RouteStarItems.Stats: %w", err)
	}
	st := unwrapOr(body, domain.RouteStarItemStats{}, nested("stats")...)
	return &st, nil
}
