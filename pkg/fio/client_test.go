package fio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
)

const sampleStatement = `{
  "accountStatement": {
    "transactionList": {
      "transaction": [
        {
          "column22": {"value": 26962, "name": "ID pohybu"},
          "column0": {"value": "2026-06-02+0200", "name": "Datum"},
          "column1": {"value": 350.00, "name": "Objem"},
          "column14": {"value": "CZK", "name": "Mena"},
          "column5": {"value": "48215694", "name": "VS"},
          "column2": {"value": "123456789", "name": "Protiucet"},
          "column3": {"value": "0800", "name": "Kod banky"},
          "column10": {"value": "Jana Dvorakova", "name": "Nazev protiuctu"}
        },
        {
          "column22": {"value": 26963, "name": "ID pohybu"},
          "column0": {"value": "2026-06-03+0200", "name": "Datum"},
          "column1": {"value": 120.50, "name": "Objem"},
          "column14": {"value": "EUR", "name": "Mena"},
          "column5": null,
          "column2": null,
          "column3": null,
          "column10": null
        }
      ]
    }
  }
}`

func TestParseStatement(t *testing.T) {
	transactions, err := parseStatement([]byte(sampleStatement))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}

	first := transactions[0]
	if first.ID != 26962 {
		t.Fatalf("unexpected id %d", first.ID)
	}
	if !first.Amount.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("unexpected amount %s", first.Amount)
	}
	if first.Currency != "CZK" || first.VariableSymbol != "48215694" {
		t.Fatalf("unexpected currency/symbol: %+v", first)
	}
	if first.CounterAccount.Name != "Jana Dvorakova" || first.CounterAccount.BankCode != "0800" {
		t.Fatalf("unexpected counter account: %+v", first.CounterAccount)
	}
	if first.Timestamp.IsZero() {
		t.Fatal("expected parsed timestamp")
	}

	second := transactions[1]
	if second.VariableSymbol != "" {
		t.Fatalf("expected empty symbol for null column, got %q", second.VariableSymbol)
	}
	if !second.Amount.Equal(decimal.NewFromFloat(120.50)) {
		t.Fatalf("unexpected amount %s", second.Amount)
	}
}

func TestTransactionsFetchesPeriodRange(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(sampleStatement))
	}))
	defer server.Close()

	client, err := NewClient(config.BankConfig{
		Token:    "secret-token",
		BaseURL:  server.URL,
		FeedFrom: "2026-06-01",
		Timeout:  5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	transactions, err := client.Transactions(context.Background())
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if !strings.HasPrefix(gotPath, "/periods/secret-token/2026-06-01/") {
		t.Fatalf("unexpected feed path %q", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/transactions.json") {
		t.Fatalf("unexpected feed path %q", gotPath)
	}
}

func TestTransactionsSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer server.Close()

	client, err := NewClient(config.BankConfig{
		Token:    "tok",
		BaseURL:  server.URL,
		FeedFrom: "2026-06-01",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Transactions(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(config.BankConfig{FeedFrom: "2026-06-01"}, nil); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := NewClient(config.BankConfig{Token: "t"}, nil); err == nil {
		t.Fatal("expected error for missing feed start")
	}
	if _, err := NewClient(config.BankConfig{Token: "t", FeedFrom: "June 1"}, nil); err == nil {
		t.Fatal("expected error for malformed feed start")
	}
}
