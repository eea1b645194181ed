package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// AliasParams filters alias listings.
type AliasParams struct {
	Page
	Search string
	Active *bool
}

func (p AliasParams) encode() url.Values {
	return newQuery().
		str("search", p.Search).
		bool("isActive", p.Active).
		page(p.Page).
		values()
}

// AliasRequest creates or replaces an alias mapping.
type AliasRequest struct {
	CanonicalName string   `json:"canonicalName"`
	Aliases       []string `json:"aliases"`
	Description   string   `json:"description,omitempty"`
}

// ItemAliasService groups the /routestar-item-alias endpoints.
type ItemAliasService struct {
	r resource
}

// ItemAliases returns the RouteStar item alias endpoints.
func (c *Client) ItemAliases() ItemAliasService {
	return ItemAliasService{r: resource{c: c, base: "/routestar-item-alias"}}
}

// Mappings lists alias mappings.
func (s ItemAliasService) Mappings(ctx context.Context, p AliasParams) ([]domain.ItemAlias, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.ItemAliases.Mappings: %w", err)
	}
	return unwrapList[domain.ItemAlias](body, listOf("mappings")...), nil
}

// Unmapped lists item names without a mapping.
func (s ItemAliasService) Unmapped(ctx context.Context, p AliasParams) ([]domain.UnmappedItem, error) {
	body, err := s.r.get(ctx, "/unmapped", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.ItemAliases.Unmapped: %w", err)
	}
	return unwrapList[domain.UnmappedItem](body, itemsChain...), nil
}

// Stats returns alias coverage.
func (s ItemAliasService) Stats(ctx context.Context) (*domain.AliasStats, error) {
	body, err := s.r.get(ctx, "/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("client.ItemAliases.Stats: %w", err)
	}
	st := unwrapOr(body, domain.AliasStats{}, nested("stats")...)
	return &st, nil
}

// Create adds an alias mapping.
func (s ItemAliasService) Create(ctx context.Context, req AliasRequest) (*domain.ItemAlias, error) {
	body, err := s.r.post(ctx, "", req)
	if err != nil {
		return nil, fmt.Errorf("client.ItemAliases.Create: %w", err)
	}
	a := unwrapOr(body, domain.ItemAlias{}, path("data", "mapping"), path("data"))
	return &a, nil
}

// Update replaces an alias mapping.
func (s ItemAliasService) Update(ctx context.Context, aliasID string, req AliasRequest) (*domain.ItemAlias, error) {
	body, err := s.r.put(ctx, id(aliasID), req)
	if err != nil {
		return nil, fmt.Errorf("client.ItemAliases.Update: %w", err)
	}
	a := unwrapOr(body, domain.ItemAlias{}, path("data", "mapping"), path("data"))
	return &a, nil
}

// Delete removes an alias mapping.
func (s ItemAliasService) Delete(ctx context.Context, aliasID string) error {
	if _, err := s.r.delete(ctx, id(aliasID)); err != nil {
		return fmt.Errorf("client.ItemAliases.Delete: %w", err)
	}
	return nil
}
