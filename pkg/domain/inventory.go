package domain

import "time"

// InventoryLine is one purchase or sale line that contributes to a grouped item.
type InventoryLine struct {
	ID          string     `json:"_id,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	Description string     `json:"description,omitempty"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice,omitempty"`
	Total       float64    `json:"total,omitempty"`
	OrderNumber string     `json:"orderNumber,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// GroupedItem is an inventory item aggregated server-side across orders or invoices.
type GroupedItem struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Category      string          `json:"category,omitempty"`
	TotalQuantity float64         `json:"totalQuantity"`
	TotalValue    float64         `json:"totalValue,omitempty"`
	OrderCount    int             `json:"orderCount,omitempty"`
	Items         []InventoryLine `json:"items,omitempty"`
}
