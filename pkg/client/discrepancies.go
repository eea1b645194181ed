package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// DiscrepancyParams filters discrepancy listings and summaries.
type DiscrepancyParams struct {
	Page
	DateRange
	Status        string
	InvoiceNumber string
	Type          string
}

func (p DiscrepancyParams) encode() url.Values {
	return newQuery().
		str("status", p.Status).
		str("invoiceNumber", p.InvoiceNumber).
		str("discrepancyType", p.Type).
		dates(p.DateRange).
		page(p.Page).
		values()
}

// CreateDiscrepancyRequest reports a quantity mismatch on an invoice line.
type CreateDiscrepancyRequest struct {
	InvoiceNumber    string  `json:"invoiceNumber"`
	ItemName         string  `json:"itemName"`
	ItemSKU          string  `json:"itemSku,omitempty"`
	ExpectedQuantity float64 `json:"expectedQuantity"`
	ActualQuantity   float64 `json:"actualQuantity"`
	DiscrepancyType  string  `json:"discrepancyType,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// DiscrepancyList is a page of discrepancies.
type DiscrepancyList struct {
	Discrepancies []domain.Discrepancy
	Pagination    domain.Pagination
}

// DiscrepanciesService groups the /discrepancies endpoints.
type DiscrepanciesService struct {
	r resource
}

// Discrepancies returns the discrepancy endpoints.
func (c *Client) Discrepancies() DiscrepanciesService {
	return DiscrepanciesService{r: resource{c: c, base: "/discrepancies"}}
}

// List fetches discrepancies matching p.
func (s DiscrepanciesService) List(ctx context.Context, p DiscrepancyParams) (*DiscrepancyList, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.Discrepancies.List: %w", err)
	}
	return &DiscrepancyList{
		Discrepancies: unwrapList[domain.Discrepancy](body, listOf("discrepancies")...),
		Pagination:    unwrapOr(body, domain.Pagination{}, paginationChain...),
	}, nil
}

// Summary returns discrepancy counts by review state.
func (s DiscrepanciesService) Summary(ctx context.Context, p DiscrepancyParams) (*domain.DiscrepancySummary, error) {
	body, err := s.r.get(ctx, "/summary", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.Discrepancies.Summary: %w", err)
	}
	sum := unwrapOr(body, domain.DiscrepancySummary{}, nested("summary")...)
	return &sum, nil
}

// Create reports a new discrepancy.
func (s DiscrepanciesService) Create(ctx context.Context, req CreateDiscrepancyRequest) (*domain.Discrepancy, error) {
	body, err := s.r.post(ctx, "", req)
	if err != nil {
		return nil, fmt.Errorf("client.Discrepancies.Create: %w", err)
	}
	d := unwrapOr(body, domain.Discrepancy{}, path("data", "discrepancy"), path("data"))
	return &d, nil
}

// Approve accepts a pending discrepancy.
func (s DiscrepanciesService) Approve(ctx context.Context, discrepancyID string) (*domain.Discrepancy, error) {
	body, err := s.r.put(ctx, id(discrepancyID)+"/approve", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Discrepancies.Approve: %w", err)
	}
	d := unwrapOr(body, domain.Discrepancy{}, path("data", "discrepancy"), path("data"))
	return &d, nil
}

// Reject declines a pending discrepancy with a reason.
func (s DiscrepanciesService) Reject(ctx context.Context, discrepancyID, reason string) (*domain.Discrepancy, error) {
	body, err := s.r.put(ctx, id(discrepancyID)+"/reject", map[string]string{"reason": reason})
	if err != nil {
		return nil, fmt.Errorf("client.Discrepancies.Reject: %w", err)
	}
	d := unwrapOr(body, domain.Discrepancy{}, path("data", "discrepancy"), path("data"))
	return &d, nil
}
