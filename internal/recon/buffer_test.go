package recon

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strahovfest/vstupenky-backend/pkg/fio"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

func TestEntryFromTransaction(t *testing.T) {
	tx := fio.Transaction{
		ID:             42,
		Timestamp:      time.UnixMilli(1717000000000),
		Amount:         decimal.RequireFromString("350.50"),
		Currency:       "CZK",
		VariableSymbol: "12345678",
		CounterAccount: fio.CounterAccount{Account: "123456789", BankCode: "0300", Name: "Jan Novak"},
	}

	entry := entryFromTransaction(tx)
	if entry.TransactionID != 42 {
		t.Errorf("id = %d", entry.TransactionID)
	}
	if entry.Amount != "CZK 350.50" {
		t.Errorf("amount = %q", entry.Amount)
	}
	if entry.Account != "123456789/0300" {
		t.Errorf("account = %q", entry.Account)
	}
	if entry.Timestamp != "1717000000000" {
		t.Errorf("timestamp = %q", entry.Timestamp)
	}
}

func TestBufferRepositoryRoundTrip(t *testing.T) {
	store := sheetdb.NewMemStore("neprirazene_transakce")
	repo := NewBufferRepository(store, "neprirazene_transakce")
	ctx := context.Background()

	entries := []UnmatchedEntry{
		{TransactionID: 1, Amount: "CZK 100.00", Symbol: "11111111"},
		{TransactionID: 2, Amount: "CZK 200.00", Symbol: "not-a-number"},
	}
	if err := repo.Append(ctx, entries); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].TransactionID != 1 || got[1].Symbol != "not-a-number" {
		t.Errorf("List = %+v", got)
	}

	symbols, err := repo.UsedSymbols(ctx)
	if err != nil {
		t.Fatalf("UsedSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != 11111111 {
		t.Errorf("symbols = %v, want [11111111]", symbols)
	}

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(got) != 1 || got[0].TransactionID != 2 {
		t.Errorf("List after delete = %+v", got)
	}
}
