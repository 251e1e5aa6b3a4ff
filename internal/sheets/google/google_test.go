package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"

	"successpath/internal/core"
	"successpath/internal/finance"
)

// fakeSheets serves the two Values endpoints the client uses.
type fakeSheets struct {
	mu      sync.Mutex
	ids     [][]any
	updates []map[string]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.ids})
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/values/"):
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updates = append(f.updates, body)
		for _, row := range body["values"].([]any) {
			f.ids = append(f.ids, []any{row.([]any)[0]})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRows": 1})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewWithOptions(context.Background(), Config{SpreadsheetID: "sheet-1"},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	return c
}

func TestAppendTransactionWritesHeaderThenRow(t *testing.T) {
	f := &fakeSheets{}
	c := newTestClient(t, f)
	tx := finance.Transaction{
		ID: "t1", Type: finance.Income, Category: finance.CategoryIncome,
		Amount: decimal.RequireFromString("1000.01"), Description: "Salary", Date: core.NewDate(2025, 1, 31),
	}

	ref, err := c.AppendTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if ref != "Transactions!A2:F2" {
		t.Fatalf("ref = %q", ref)
	}
	if len(f.updates) != 1 {
		t.Fatalf("updates = %d", len(f.updates))
	}
	rows := f.updates[0]["values"].([]any)
	if len(rows) != 2 || rows[0].([]any)[0] != "ID" || rows[1].([]any)[5] != "1000.01" {
		t.Fatalf("unexpected rows %v", rows)
	}

	again, err := c.AppendTransaction(context.Background(), tx)
	if err != nil || again != ref {
		t.Fatalf("re-append = %q, %v; want %q", again, err, ref)
	}
	if len(f.updates) != 1 {
		t.Fatalf("duplicate row written")
	}
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	if _, err := NewWithOptions(context.Background(), Config{}); err == nil {
		t.Fatalf("missing spreadsheet id accepted")
	}
	if _, err := New(context.Background(), Config{SpreadsheetID: "x"}); err == nil {
		t.Fatalf("missing credentials accepted")
	}
}
