package domain

import "time"

// ItemAlias maps the many spellings of a RouteStar item onto one canonical name.
type ItemAlias struct {
	ID            string     `json:"_id,omitempty"`
	CanonicalName string     `json:"canonicalName"`
	Aliases       []string   `json:"aliases"`
	Description   string     `json:"description,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// UnmappedItem is a RouteStar item name that no alias covers yet.
type UnmappedItem struct {
	Name        string `json:"name"`
	Occurrences int    `json:"occurrences"`
}

// AliasStats summarises alias coverage.
type AliasStats struct {
	TotalMappings int `json:"totalMappings"`
	TotalAliases  int `json:"totalAliases"`
	UnmappedItems int `json:"unmappedItems"`
	MappedItems   int `json:"mappedItems"`
}

// ModelCategory assigns a CustomerConnect model number to a RouteStar category item.
type ModelCategory struct {
	ID               string     `json:"_id,omitempty"`
	ModelNumber      string     `json:"modelNumber"`
	CategoryItemName string     `json:"categoryItemName"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// UnmappedModel is a purchased model number with no category assignment.
type UnmappedModel struct {
	ModelNumber string `json:"modelNumber"`
	Description string `json:"description,omitempty"`
	OrderCount  int    `json:"orderCount"`
}
