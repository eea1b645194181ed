package domain

import "time"

// Invoice statuses as reported by the backend.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusClosed    = "closed"
	InvoiceStatusCancelled = "cancelled"
)

// Customer is the billed party on an invoice.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceLine is a single line item on an invoice.
type InvoiceLine struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku,omitempty"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
}

// Invoice is a RouteStar or locally created invoice.
type Invoice struct {
	ID            string        `json:"_id,omitempty"`
	InvoiceNumber string        `json:"invoiceNumber"`
	InvoiceType   string        `json:"invoiceType,omitempty"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus,omitempty"`
	Customer      Customer      `json:"customer"`
	InvoiceDate   *time.Time    `json:"invoiceDate,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Subtotal      float64       `json:"subtotal,omitempty"`
	Tax           float64       `json:"tax,omitempty"`
	Total         float64       `json:"total"`
	LineItems     []InvoiceLine `json:"lineItems,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
}

// InvoiceStats summarises invoice counts and amounts.
type InvoiceStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Paid         int     `json:"paid"`
	Closed       int     `json:"closed"`
	TotalAmount  float64 `json:"totalAmount"`
	PendingTotal float64 `json:"pendingAmount"`
}
