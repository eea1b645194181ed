package domain

import "time"

// OrderLine is one item on a CustomerConnect purchase order.
type OrderLine struct {
	Name       string  `json:"name"`
	SKU        string  `json:"sku,omitempty"`
	Quantity   float64 `json:"qty"`
	UnitPrice  float64 `json:"price,omitempty"`
	LineTotal  float64 `json:"lineTotal,omitempty"`
	ModelGroup string  `json:"modelGroup,omitempty"`
}

// Order is a CustomerConnect purchase order.
type Order struct {
	ID             string      `json:"_id,omitempty"`
	OrderNumber    string      `json:"orderNumber"`
	Vendor         string      `json:"vendor,omitempty"`
	Status         string      `json:"status"`
	OrderDate      *time.Time  `json:"orderDate,omitempty"`
	Total          float64     `json:"total"`
	Items          []OrderLine `json:"items,omitempty"`
	StockProcessed bool        `json:"stockProcessed"`
}

// OrderStats summarises CustomerConnect orders.
type OrderStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"byStatus,omitempty"`
	TotalAmount float64        `json:"totalAmount"`
}
