package domain

import "time"

// Dashboard is the landing-screen report computed by the backend.
type Dashboard struct {
	TotalInvoices     int             `json:"totalInvoices"`
	PendingInvoices   int             `json:"pendingInvoices"`
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      float64         `json:"totalRevenue"`
	LowStockCount     int             `json:"lowStockCount"`
	OpenDiscrepancies int             `json:"openDiscrepancies"`
	RecentActivity    []ActivityEntry `json:"recentActivity,omitempty"`
	TopItems          []SalesLine     `json:"topItems,omitempty"`
}

// ActivityEntry is one line of the dashboard's recent activity feed.
type ActivityEntry struct {
	Kind        string     `json:"type"`
	Description string     `json:"description"`
	User        string     `json:"user,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// SalesLine is an item's sales over a report period.
type SalesLine struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SalesReport is the period sales report.
type SalesReport struct {
	StartDate    string      `json:"startDate,omitempty"`
	EndDate      string      `json:"endDate,omitempty"`
	TotalRevenue float64     `json:"totalRevenue"`
	TotalUnits   float64     `json:"totalUnits"`
	InvoiceCount int         `json:"invoiceCount"`
	Items        []SalesLine `json:"items"`
}
