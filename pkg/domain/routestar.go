package domain

// RouteStarItem is an entry of the RouteStar item master list.
type RouteStarItem struct {
	ID           string  `json:"_id,omitempty"`
	ItemName     string  `json:"itemName"`
	ItemParent   string  `json:"itemParent,omitempty"`
	Description  string  `json:"description,omitempty"`
	ItemCategory string  `json:"itemCategory,omitempty"`
	QtyOnHand    float64 `json:"qtyOnHand"`
	Price        float64 `json:"price,omitempty"`
	ForUse       bool    `json:"forUse"`
	ForSell      bool    `json:"forSell"`
}

// RouteStarItemStats summarises the item master list.
type RouteStarItemStats struct {
	Total        int `json:"total"`
	ForUse       int `json:"forUse"`
	ForSell      int `json:"forSell"`
	Unclassified int `json:"unclassified"`
}
