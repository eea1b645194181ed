package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// InvoiceListParams filters the invoice list.
type InvoiceListParams struct {
	Page
	DateRange
	Status        string
	PaymentStatus string
	Search        string
	Customer      string
	InvoiceType   string
}

func (p InvoiceListParams) encode() url.Values {
	return newQuery().
		str("status", p.Status).
		str("paymentStatus", p.PaymentStatus).
		str("search", p.Search).
		str("customer", p.Customer).
		str("invoiceType", p.InvoiceType).
		dates(p.DateRange).
		page(p.Page).
		values()
}

// InvoiceList is a page of invoices.
type InvoiceList struct {
	Invoices   []domain.Invoice
	Pagination domain.Pagination
}

// InvoicesService groups the /invoices endpoints.
type InvoicesService struct {
	r resource
}

// Invoices returns the invoice endpoints.
func (c *Client) Invoices() InvoicesService {
	return InvoicesService{r: resource{c: c, base: "/invoices"}}
}

// List fetches invoices matching p.
func (s InvoicesService) List(ctx context.Context, p InvoiceListParams) (*InvoiceList, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.Invoices.List: %w", err)
	}
	return &InvoiceList{
		Invoices:   unwrapList[domain.Invoice](body, listOf("invoices")...),
		Pagination: unwrapOr(body, domain.Pagination{}, paginationChain...),
	}, nil
}

// invoiceByIDChain: data.invoice -> data -> invoice -> body.
var invoiceByIDChain = append(nested("invoice"), whole())

// invoiceByNumberChain: (success && data) -> data.invoice -> data -> invoice -> body.
var invoiceByNumberChain = append([]step{whenSuccess("data")}, invoiceByIDChain...)

// ByID fetches one invoice by its database ID.
func (s InvoicesService) ByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	body, err := s.r.get(ctx, id(invoiceID), nil)
	if err != nil {
		return nil, fmt.Errorf("client.Invoices.ByID: %w", err)
	}
	inv := unwrapOr(body, domain.Invoice{}, invoiceByIDChain...)
	return &inv, nil
}

// ByNumber fetches a RouteStar invoice by its invoice number.
func (s InvoicesService) ByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	body, err := s.r.c.doRequest(ctx, http.MethodGet, "/routestar/invoices"+id(number), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("client.Invoices.ByNumber: %w", err)
	}
	inv := unwrapOr(body, domain.Invoice{}, invoiceByNumberChain...)
	return &inv, nil
}

// Stats returns invoice totals.
func (s InvoicesService) Stats(ctx context.Context) (*domain.InvoiceStats, error) {
	body, err := s.r.get(ctx, "/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Invoices.Stats: %w", err)
	}
	st := unwrapOr(body, domain.InvoiceStats{}, nested("stats")...)
	return &st, nil
}

// UpdateStatus changes an invoice's status.
func (s InvoicesService) UpdateStatus(ctx context.Context, invoiceID, status string) (*domain.Invoice, error) {
	body, err := s.r.patch(ctx, id(invoiceID)+"/status", map[string]string{"status": status})
	if err != nil {
		return nil, fmt.Errorf("client.Invoices.UpdateStatus: %w", err)
	}
	inv := unwrapOr(body, domain.Invoice{}, path("data", "invoice"), path("data"))
	return &inv, nil
}

// Delete removes an invoice.
func (s InvoicesService) Delete(ctx context.Context, invoiceID string) error {
	if _, err := s.r.delete(ctx, id(invoiceID)); err != nil {
		return fmt.Errorf("client.Invoices.Delete: %w", err)
	}
	return nil
}
