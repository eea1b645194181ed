package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// recorder captures the last request a test server saw.
type recorder struct {
	method string
	path   string
	query  string
	auth   string
	ctype  string
	body   map[string]any
}

func newServer(t *testing.T, status int, resp string, rec *recorder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.query = r.URL.RawQuery
			rec.auth = r.Header.Get("Authorization")
			rec.ctype = r.Header.Get("Content-Type")
			rec.body = nil
			json.NewDecoder(r.Body).Decode(&rec.body) //nolint:errcheck
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(resp)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginAdmin(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"success":true,"data":{"token":"jwt-1","user":{"id":"u1","username":"boss","role":"admin"}}}`, &rec)

	c := New(srv.URL + "/api/")
	resp, err := c.Auth().LoginAdmin(context.Background(), "boss", "Secret123")
	if err != nil {
		t.Fatalf("LoginAdmin() error: %v", err)
	}
	if resp.Token != "jwt-1" {
		t.Errorf("Token = %q, want %q", resp.Token, "jwt-1")
	}
	if !resp.User.IsAdmin() {
		t.Errorf("User.Role = %q, want admin", resp.User.Role)
	}
	if rec.method != http.MethodPost || rec.path != "/api/auth/admin/login" {
		t.Errorf("request = %s %s, want POST /api/auth/admin/login", rec.method, rec.path)
	}
	if rec.auth != "" {
		t.Errorf("Authorization = %q, want none on login", rec.auth)
	}
	if rec.ctype != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", rec.ctype)
	}
	if rec.body["username"] != "boss" || rec.body["password"] != "Secret123" {
		t.Errorf("body = %v, want username and password", rec.body)
	}
}

func TestLoginEmployee_Path(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"success":true,"data":{"token":"t","user":{"id":"u2","username":"clerk","role":"employee"}}}`, &rec)

	if _, err := New(srv.URL).Auth().LoginEmployee(context.Background(), "clerk", "pw"); err != nil {
		t.Fatalf("LoginEmployee() error: %v", err)
	}
	if rec.path != "/auth/login" {
		t.Errorf("path = %q, want %q", rec.path, "/auth/login")
	}
}

func TestLogin_SuccessFalse(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":false,"message":"Invalid credentials"}`, nil)

	_, err := New(srv.URL).Auth().LoginEmployee(context.Background(), "clerk", "wrong")
	if err == nil {
		t.Fatal("expected error for success=false")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if got := Message(err); got != "Invalid credentials" {
		t.Errorf("Message() = %q, want %q", got, "Invalid credentials")
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":true,"data":{"user":{"id":"u1"}}}`, nil)

	_, err := New(srv.URL).Auth().LoginAdmin(context.Background(), "boss", "pw")
	if got := Message(err); got != "Invalid response from server" {
		t.Errorf("Message() = %q, want %q", got, "Invalid response from server")
	}
}

func TestBearerHeader(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"user":{"id":"u1","username":"boss"}}}`, &rec)

	c := New(srv.URL).WithToken("abc")
	me, err := c.Auth().Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if rec.auth != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", rec.auth, "Bearer abc")
	}
	if me.Username != "boss" {
		t.Errorf("Username = %q, want %q", me.Username, "boss")
	}
}

func TestWithToken_Copy(t *testing.T) {
	base := New("http://example.test")
	authed := base.WithToken("abc")
	if base.Token() != "" {
		t.Errorf("base.Token() = %q, want empty", base.Token())
	}
	if authed.Token() != "abc" {
		t.Errorf("authed.Token() = %q, want %q", authed.Token(), "abc")
	}
}

func TestHTTPError_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"message field", 400, `{"message":"Bad input"}`, "Bad input", ""},
		{"error string", 500, `{"error":"boom"}`, "boom", ""},
		{"error object", 401, `{"error":{"code":"TOKEN_EXPIRED","message":"Token expired"}}`, "Token expired", "TOKEN_EXPIRED"},
		{"top-level code", 403, `{"message":"Forbidden","code":"NOT_ADMIN"}`, "Forbidden", "NOT_ADMIN"},
		{"empty json", 500, `{}`, "Request failed", ""},
		{"not json", 502, `<html>bad gateway</html>`, "Bad Gateway", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			_, err := New(srv.URL).WithToken("tok").Invoices().Stats(context.Background())
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if httpErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", httpErr.Message, tt.wantMsg)
			}
			if httpErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", httpErr.Code, tt.wantCode)
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("IsStatus(%d) = false, want true", tt.status)
			}
		})
	}
}

func TestHTTPError_String(t *testing.T) {
	err := &HTTPError{StatusCode: 401, Message: "Token expired", Code: "TOKEN_EXPIRED"}
	if got, want := err.Error(), "HTTP 401: Token expired (TOKEN_EXPIRED)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	plain := &HTTPError{StatusCode: 404, Message: "Not found"}
	if got, want := plain.Error(), "HTTP 404: Not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestQuery_OmittedWhenEmpty(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"invoices":[]}}`, &rec)

	if _, err := New(srv.URL).Invoices().List(context.Background(), InvoiceListParams{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if rec.query != "" {
		t.Errorf("query = %q, want empty", rec.query)
	}
}

func TestQuery_ExplicitZeroAndFalse(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"orders":[]}}`, &rec)

	p := OrderListParams{
		Page:           Page{Page: Int(0)},
		StockProcessed: Bool(false),
		Vendor:         "",
	}
	if _, err := New(srv.URL).Orders().List(context.Background(), p); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !strings.Contains(rec.query, "page=0") {
		t.Errorf("query = %q, want page=0", rec.query)
	}
	if !strings.Contains(rec.query, "stockProcessed=false") {
		t.Errorf("query = %q, want stockProcessed=false", rec.query)
	}
	if strings.Contains(rec.query, "vendor") {
		t.Errorf("query = %q, want no vendor", rec.query)
	}
}

func TestGroupedItems_NestedAndFlat(t *testing.T) {
	bodies := map[string]string{
		"nested": `{"success":true,"data":{"items":[{"name":"Ice 10lb","totalQuantity":4}]}}`,
		"flat":   `{"items":[{"name":"Ice 10lb","totalQuantity":4}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body, nil)
			items, err := New(srv.URL).GroupedItems(context.Background(), GroupedItemsParams{})
			if err != nil {
				t.Fatalf("GroupedItems() error: %v", err)
			}
			if len(items) != 1 || items[0].Name != "Ice 10lb" || items[0].TotalQuantity != 4 {
				t.Errorf("items = %+v, want one Ice 10lb x4", items)
			}
		})
	}
}

func TestGroupedItems_AbsentIsEmpty(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":true}`, nil)
	items, err := New(srv.URL).RouteStarGroupedItems(context.Background(), GroupedItemsParams{})
	if err != nil {
		t.Fatalf("RouteStarGroupedItems() error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %#v, want empty non-nil slice", items)
	}
}

func TestInvoiceByNumber_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"success data", `{"success":true,"data":{"invoiceNumber":"INV-7","total":12.5}}`},
		{"data invoice", `{"data":{"invoice":{"invoiceNumber":"INV-7","total":12.5}}}`},
		{"invoice", `{"invoice":{"invoiceNumber":"INV-7","total":12.5}}`},
		{"bare", `{"invoiceNumber":"INV-7","total":12.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			srv := newServer(t, http.StatusOK, tt.body, &rec)
			inv, err := New(srv.URL).Invoices().ByNumber(context.Background(), "INV-7")
			if err != nil {
				t.Fatalf("ByNumber() error: %v", err)
			}
			if inv.InvoiceNumber != "INV-7" || inv.Total != 12.5 {
				t.Errorf("invoice = %+v, want INV-7 / 12.5", inv)
			}
			if rec.path != "/routestar/invoices/INV-7" {
				t.Errorf("path = %q, want %q", rec.path, "/routestar/invoices/INV-7")
			}
		})
	}
}

func TestInvoiceByID_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"data invoice", `{"data":{"invoice":{"_id":"i1","invoiceNumber":"INV-7","total":12.5}}}`},
		{"data", `{"success":true,"data":{"_id":"i1","invoiceNumber":"INV-7","total":12.5}}`},
		{"invoice", `{"invoice":{"_id":"i1","invoiceNumber":"INV-7","total":12.5}}`},
		{"bare", `{"_id":"i1","invoiceNumber":"INV-7","total":12.5}`},
		{"data invoice before data", `{"data":{"_id":"wrong","invoice":{"_id":"i1","invoiceNumber":"INV-7","total":12.5}}}`},
		{"data before invoice", `{"data":{"_id":"i1","invoiceNumber":"INV-7","total":12.5},"invoice":{"_id":"wrong"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			srv := newServer(t, http.StatusOK, tt.body, &rec)
			inv, err := New(srv.URL).WithToken("tok").Invoices().ByID(context.Background(), "i1")
			if err != nil {
				t.Fatalf("ByID() error: %v", err)
			}
			if inv.ID != "i1" || inv.InvoiceNumber != "INV-7" || inv.Total != 12.5 {
				t.Errorf("invoice = %+v, want i1 / INV-7 / 12.5", inv)
			}
			if rec.method != http.MethodGet || rec.path != "/invoices/i1" || rec.auth != "Bearer tok" {
				t.Errorf("request = %s %s auth %q", rec.method, rec.path, rec.auth)
			}
		})
	}
}

func TestInvoiceUpdateStatus(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"invoice":{"_id":"i1","status":"paid"}}}`, &rec)

	inv, err := New(srv.URL).Invoices().UpdateStatus(context.Background(), "i1", "paid")
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if rec.method != http.MethodPatch || rec.path != "/invoices/i1/status" {
		t.Errorf("request = %s %s, want PATCH /invoices/i1/status", rec.method, rec.path)
	}
	if rec.body["status"] != "paid" {
		t.Errorf("body status = %v, want paid", rec.body["status"])
	}
	if inv.Status != "paid" {
		t.Errorf("Status = %q, want %q", inv.Status, "paid")
	}
}

func TestFetchHistory_Defaults(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":true}`, nil)
	c := New(srv.URL)

	page, err := c.FetchHistory().History(context.Background(), HistoryParams{})
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(page.Records) != 0 || page.Records == nil {
		t.Errorf("Records = %#v, want empty", page.Records)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 20 {
		t.Errorf("Pagination = %+v, want page 1 limit 20", page.Pagination)
	}

	active, err := c.FetchHistory().ActiveFetches(context.Background())
	if err != nil {
		t.Fatalf("ActiveFetches() error: %v", err)
	}
	if active == nil || len(active) != 0 {
		t.Errorf("active = %#v, want empty", active)
	}

	sum, err := c.FetchHistory().Statistics(context.Background(), HistoryParams{})
	if err != nil {
		t.Fatalf("Statistics() error: %v", err)
	}
	if *sum != (domain.FetchSummary{}) {
		t.Errorf("summary = %+v, want zero", *sum)
	}
}

func TestFetchHistory_Present(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"history":{"items":[{"source":"routestar","status":"completed"}],"pagination":{"page":2,"limit":10,"total":11,"pages":2}}}`, nil)

	page, err := New(srv.URL).FetchHistory().History(context.Background(), HistoryParams{Page: Page{Page: Int(2)}})
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].Source != "routestar" {
		t.Errorf("Records = %+v, want one routestar record", page.Records)
	}
	if page.Pagination.Page != 2 || page.Pagination.HasNext() {
		t.Errorf("Pagination = %+v, want last page 2", page.Pagination)
	}
}

func TestStockCategoryPaths(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"skus":[{"sku":"ICE-10"}]}}`, &rec)

	skus, err := New(srv.URL).Stock().CategorySKUs(context.Background(), "Ice Bags")
	if err != nil {
		t.Fatalf("CategorySKUs() error: %v", err)
	}
	if rec.path != "/stock/category/Ice Bags/skus" {
		t.Errorf("path = %q, want %q", rec.path, "/stock/category/Ice Bags/skus")
	}
	if len(skus) != 1 || skus[0].SKU != "ICE-10" {
		t.Errorf("skus = %+v, want ICE-10", skus)
	}
}

func TestStockSummary(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"categories":[{"category":"Ice","onHand":3}],"totals":{"categories":1,"onHand":3}}}`, nil)

	sum, err := New(srv.URL).Stock().Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if len(sum.Categories) != 1 || sum.Totals.OnHand != 3 {
		t.Errorf("summary = %+v, want one category with 3 on hand", sum)
	}
}

func TestDiscrepancyReject(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"data":{"discrepancy":{"_id":"d1","status":"rejected"}}}`, &rec)

	d, err := New(srv.URL).Discrepancies().Reject(context.Background(), "d1", "counted twice")
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/discrepancies/d1/reject" {
		t.Errorf("request = %s %s, want PUT /discrepancies/d1/reject", rec.method, rec.path)
	}
	if rec.body["reason"] != "counted twice" {
		t.Errorf("reason = %v, want %q", rec.body["reason"], "counted twice")
	}
	if d.Status != domain.DiscrepancyRejected {
		t.Errorf("Status = %q, want %q", d.Status, domain.DiscrepancyRejected)
	}
}

func TestUsersList_Stats(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"users":[
		{"id":"1","role":"admin","isActive":true},
		{"id":"2","role":"employee","isActive":true},
		{"id":"3","role":"employee","isActive":false}
	]}}`, nil)

	list, err := New(srv.URL).Users().List(context.Background(), UserListParams{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := UserStats{Total: 3, Active: 2, Inactive: 1, Admins: 1, Employees: 2}
	if list.Stats != want {
		t.Errorf("Stats = %+v, want %+v", list.Stats, want)
	}
}

func TestUsersSetActive(t *testing.T) {
	var rec recorder
	srv := newServer(t, http.StatusOK, `{"success":true,"data":{"user":{"id":"3","isActive":true}}}`, &rec)

	u, err := New(srv.URL).Users().SetActive(context.Background(), "3", true)
	if err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}
	if rec.method != http.MethodPatch || rec.path != "/users/3/status" {
		t.Errorf("request = %s %s, want PATCH /users/3/status", rec.method, rec.path)
	}
	if rec.body["isActive"] != true {
		t.Errorf("isActive = %v, want true", rec.body["isActive"])
	}
	if !u.IsActive {
		t.Error("IsActive = false, want true")
	}
}

func TestRepeatedReads_Identical(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"stats":{"total":4,"pending":1}}}`, nil)
	c := New(srv.URL)

	first, err := c.Invoices().Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	second, err := c.Invoices().Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if *first != *second {
		t.Errorf("second read = %+v, want %+v", *second, *first)
	}
	if first.Total != 4 {
		t.Errorf("Total = %d, want 4", first.Total)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":`, nil)
	if _, err := New(srv.URL).Dashboard(context.Background()); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second) // slow server
		w.Write([]byte(`{}`))       //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Dashboard(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
