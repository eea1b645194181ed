package domain

// Pagination is the page/limit summary returned alongside list endpoints.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// HasNext reports whether another page follows this one.
func (p Pagination) HasNext() bool {
	return p.Pages > 0 && p.Page < p.Pages
}
