package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// HistoryParams filters fetch history.
type HistoryParams struct {
	Page
	DateRange
	Source string
	Status string
}

func (p HistoryParams) encode() url.Values {
	return newQuery().
		str("source", p.Source).
		str("status", p.Status).
		dates(p.DateRange).
		page(p.Page).
		values()
}

// HistoryPage is a page of fetch records.
type HistoryPage struct {
	Records    []domain.FetchRecord `json:"items"`
	Pagination domain.Pagination    `json:"pagination"`
}

// defaultHistoryPagination is reported when the backend omits pagination.
var defaultHistoryPagination = domain.Pagination{Page: 1, Limit: 20}

// FetchHistoryService groups the /fetch-history endpoints.
type FetchHistoryService struct {
	r resource
}

// FetchHistory returns the sync-job history endpoints.
func (c *Client) FetchHistory() FetchHistoryService {
	return FetchHistoryService{r: resource{c: c, base: "/fetch-history"}}
}

// History returns past fetch runs.
func (s FetchHistoryService) History(ctx context.Context, p HistoryParams) (*HistoryPage, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.FetchHistory.History: %w", err)
	}
	page := unwrapOr(body, HistoryPage{}, path("history"))
	if page.Records == nil {
		// Older backends sent history as a bare array.
		page.Records = unwrapList[domain.FetchRecord](body, path("history"))
	}
	if page.Pagination == (domain.Pagination{}) {
		page.Pagination = defaultHistoryPagination
	}
	return &page, nil
}

// ActiveFetches returns fetch runs still in progress.
func (s FetchHistoryService) ActiveFetches(ctx context.Context) ([]domain.FetchRecord, error) {
	body, err := s.r.get(ctx, "/active", nil)
	if err != nil {
		return nil, fmt.Errorf("client.FetchHistory.ActiveFetches: %w", err)
	}
	return unwrapList[domain.FetchRecord](body, path("activeFetches")), nil
}

// Statistics returns aggregate fetch statistics.
func (s FetchHistoryService) Statistics(ctx context.Context, p HistoryParams) (*domain.FetchSummary, error) {
	body, err := s.r.get(ctx, "/statistics", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.FetchHistory.Statistics: %w", err)
	}
	sum := unwrapOr(body, domain.FetchSummary{}, path("summary"))
	return &sum, nil
}
