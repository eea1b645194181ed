package domain

import "time"

// StockCategory is one row of the stock summary: a category with server-computed totals.
type StockCategory struct {
	Category       string  `json:"category"`
	TotalPurchased float64 `json:"totalPurchased"`
	TotalSold      float64 `json:"totalSold"`
	OnHand         float64 `json:"onHand"`
	SKUCount       int     `json:"skuCount"`
	TotalValue     float64 `json:"totalValue,omitempty"`
}

// StockTotals aggregates every category.
type StockTotals struct {
	Categories     int     `json:"categories"`
	TotalPurchased float64 `json:"totalPurchased"`
	TotalSold      float64 `json:"totalSold"`
	OnHand         float64 `json:"onHand"`
}

// StockSummary is the stock overview screen payload.
type StockSummary struct {
	Categories []StockCategory `json:"categories"`
	Totals     StockTotals     `json:"totals"`
}

// SKU is a purchased model within a stock category.
type SKU struct {
	SKU         string     `json:"sku"`
	Name        string     `json:"name,omitempty"`
	Purchased   float64    `json:"purchased"`
	LastOrdered *time.Time `json:"lastOrdered,omitempty"`
	OrderCount  int        `json:"orderCount,omitempty"`
}

// CategorySale is one invoice line sold out of a stock category.
type CategorySale struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Customer      string     `json:"customer,omitempty"`
	ItemName      string     `json:"itemName"`
	Quantity      float64    `json:"quantity"`
	Amount        float64    `json:"amount,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
}
