package domain

import "time"

// Discrepancy review states.
const (
	DiscrepancyPending  = "pending"
	DiscrepancyApproved = "approved"
	DiscrepancyRejected = "rejected"
)

// Discrepancy is a reported mismatch between invoiced and delivered quantities.
type Discrepancy struct {
	ID               string     `json:"_id,omitempty"`
	InvoiceNumber    string     `json:"invoiceNumber"`
	ItemName         string     `json:"itemName"`
	ItemSKU          string     `json:"itemSku,omitempty"`
	ExpectedQuantity float64    `json:"expectedQuantity"`
	ActualQuantity   float64    `json:"actualQuantity"`
	Difference       float64    `json:"difference"`
	DiscrepancyType  string     `json:"discrepancyType,omitempty"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	RejectReason     string     `json:"rejectReason,omitempty"`
	ReportedBy       string     `json:"reportedBy,omitempty"`
	ReviewedBy       string     `json:"reviewedBy,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// DiscrepancySummary counts discrepancies by review state.
type DiscrepancySummary struct {
	Total    int     `json:"total"`
	Pending  int     `json:"pending"`
	Approved int     `json:"approved"`
	Rejected int     `json:"rejected"`
	NetUnits float64 `json:"netDifference"`
}
