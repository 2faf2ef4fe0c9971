package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ratecalc/internal/catalog"
)

const rateSheetJSON = `{
  "range": "Rates!A1:G4",
  "majorDimension": "ROWS",
  "values": [
    ["Name", "Category", "Stack", "Roll", "Loose", "Value", "Icon"],
    ["Rolex", "AutoExotic", "", 2, 1, "", "watch"],
    ["Stolen Laptop", "ScrapeYard", "", "", "", 137.5, "laptop"]
  ]
}`

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if !strings.Contains(r.URL.Path, "/spreadsheets/sheet-id/values/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:      "sheet-id",
		ServiceAccountFile: "/non/existent/creds.json",
	})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewWithService_Defaults(t *testing.T) {
	c := NewWithService(nil, Config{SpreadsheetID: " sheet-id "})
	if c.ratesSheet != DefaultSheetName {
		t.Errorf("ratesSheet = %q, want %q", c.ratesSheet, DefaultSheetName)
	}
	if c.cacheValidDuration != DefaultCacheDuration {
		t.Errorf("cacheValidDuration = %v, want %v", c.cacheValidDuration, DefaultCacheDuration)
	}
	if c.spreadsheetID != "sheet-id" {
		t.Errorf("spreadsheetID = %q", c.spreadsheetID)
	}
}

func TestClient_ItemsWithoutService(t *testing.T) {
	c := NewWithService(nil, Config{SpreadsheetID: "sheet-id"})
	if _, err := c.Items(context.Background()); err == nil {
		t.Fatal("expected error when service is nil")
	}
}

func TestClient_Items(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusOK, rateSheetJSON)
	ctx := context.Background()

	c, err := NewUnauthenticated(ctx, srv.URL+"/", Config{SpreadsheetID: "sheet-id", CacheDuration: time.Minute})
	if err != nil {
		t.Fatalf("NewUnauthenticated: %v", err)
	}

	items, err := c.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Rolex" || items[0].Cash.Roll != 2 || items[0].Cash.Loose != 1 {
		t.Errorf("unexpected Rolex: %+v", items[0])
	}
	if items[1].Value.Cents != 13750 {
		t.Errorf("unexpected laptop value: %d", items[1].Value.Cents)
	}

	// Second read is served from cache
	if _, err := c.Items(ctx); err != nil {
		t.Fatalf("cached Items: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("expected 1 API call, got %d", got)
	}

	c.InvalidateCache()
	if _, err := c.Items(ctx); err != nil {
		t.Fatalf("Items after invalidate: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("expected 2 API calls after invalidate, got %d", got)
	}
}

func TestClient_ItemsCacheExpires(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusOK, rateSheetJSON)
	ctx := context.Background()

	c, err := NewUnauthenticated(ctx, srv.URL+"/", Config{SpreadsheetID: "sheet-id", CacheDuration: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewUnauthenticated: %v", err)
	}
	if _, err := c.Items(ctx); err != nil {
		t.Fatalf("Items: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := c.Items(ctx); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("expected 2 API calls after expiry, got %d", got)
	}
}

func TestClient_ItemsAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"backend error"}}`)
	ctx := context.Background()

	c, err := NewUnauthenticated(ctx, srv.URL+"/", Config{SpreadsheetID: "sheet-id"})
	if err != nil {
		t.Fatalf("NewUnauthenticated: %v", err)
	}
	_, err = c.Items(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, catalog.ErrInvalidData) {
		t.Errorf("API failures must stay retryable: %v", err)
	}
}

func TestClient_ItemsInvalidSheet(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"values":[["Name","Category","Value"],["Watch","Jewels",100]]}`)
	ctx := context.Background()

	c, err := NewUnauthenticated(ctx, srv.URL+"/", Config{SpreadsheetID: "sheet-id"})
	if err != nil {
		t.Fatalf("NewUnauthenticated: %v", err)
	}
	if _, err := c.Items(ctx); !errors.Is(err, catalog.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}
