package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// ModelCategoryParams filters model-category mappings.
type ModelCategoryParams struct {
	Page
	Search   string
	Category string
}

func (p ModelCategoryParams) encode() url.Values {
	return newQuery().
		str("search", p.Search).
		str("category", p.Category).
		page(p.Page).
		values()
}

// AssignCategoryRequest maps a model number to a category item.
type AssignCategoryRequest struct {
	ModelNumber      string `json:"modelNumber"`
	CategoryItemName string `json:"categoryItemName"`
	Notes            string `json:"notes,omitempty"`
}

// ModelCategoryService groups the /model-category endpoints.
type ModelCategoryService struct {
	r resource
}

// ModelCategories returns the model-to-category mapping endpoints.
func (c *Client) ModelCategories() ModelCategoryService {
	return ModelCategoryService{r: resource{c: c, base: "/model-category"}}
}

// Mappings lists existing model-category assignments.
func (s ModelCategoryService) Mappings(ctx context.Context, p ModelCategoryParams) ([]domain.ModelCategory, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.ModelCategories.Mappings: %w", err)
	}
	return unwrapList[domain.ModelCategory](body, listOf("mappings")...), nil
}

// UnmappedModels lists purchased models with no category.
func (s ModelCategoryService) UnmappedModels(ctx context.Context) ([]domain.UnmappedModel, error) {
	body, err := s.r.get(ctx, "/unmapped-models", nil)
	if err != nil {
		return nil, fmt.Errorf("client.ModelCategories.UnmappedModels: %w", err)
	}
	return unwrapList[domain.UnmappedModel](body, listOf("models")...), nil
}

// Categories lists the category item names a model can be assigned to.
func (s ModelCategoryService) Categories(ctx context.Context) ([]string, error) {
	body, err := s.r.get(ctx, "/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("client.ModelCategories.Categories: %w", err)
	}
	return unwrapList[string](body, listOf("categories")...), nil
}

// Assign creates or replaces a model's category.
func (s ModelCategoryService) Assign(ctx context.Context, req AssignCategoryRequest) (*domain.ModelCategory, error) {
	body, err := s.r.post(ctx, "", req)
	if err != nil {
		return nil, fmt.Errorf("client.ModelCategories.Assign: %w", err)
	}
	m := unwrapOr(body, domain.ModelCategory{}, path("data", "mapping"), path("data"))
	return &m, nil
}

// Delete removes a model-category assignment.
func (s ModelCategoryService) Delete(ctx context.Context, mappingID string) error {
	if _, err := s.r.delete(ctx, id(mappingID)); err != nil {
		return fmt.Errorf("client.ModelCategories.Delete: %w", err)
	}
	return nil
}
