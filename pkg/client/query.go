package client

import (
	"net/url"
	"strconv"
)

// Int returns a pointer to n, for optional numeric parameters.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for optional boolean parameters.
func Bool(b bool) *bool { return &b }

// query assembles a query string from optional parameters. Empty strings and
// nil pointers are left out; explicit zero values are kept.
type query struct {
	v url.Values
}

func newQuery() *query {
	return &query{v: url.Values{}}
}

func (q *query) str(key, val string) *query {
	if val != "" {
		q.v.Set(key, val)
	}
	return q
}

func (q *query) int(key string, val *int) *query {
	if val != nil {
		q.v.Set(key, strconv.Itoa(*val))
	}
	return q
}

func (q *query) bool(key string, val *bool) *query {
	if val != nil {
		q.v.Set(key, strconv.FormatBool(*val))
	}
	return q
}

func (q *query) page(p Page) *query {
	return q.int("page", p.Page).int("limit", p.Limit)
}

func (q *query) values() url.Values {
	return q.v
}

// Page is the page/limit pair shared by list endpoints.
type Page struct {
	Page  *int
	Limit *int
}

// DateRange bounds report and list queries. Dates are YYYY-MM-DD.
type DateRange struct {
	StartDate string
	EndDate   string
}

func (q *query) dates(d DateRange) *query {
	return q.str("startDate", d.StartDate).str("endDate", d.EndDate)
}

// withQuery appends the encoded query to path, adding "?" only when there is
// something to send.
func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
