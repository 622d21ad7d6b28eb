package sheetdb

import (
	"context"
	"testing"
)

func TestMemStoreAppendAndReadAll(t *testing.T) {
	store := NewMemStore("listky")
	ctx := context.Background()

	err := store.Append(ctx, "listky", []Row{
		{"uuid": "a", "cena": "350"},
		{"uuid": "b", "cena": "700"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := store.ReadAll(ctx, "listky")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["uuid"] != "a" || rows[1]["cena"] != "700" {
		t.Fatalf("unexpected rows: %v", rows)
	}

	// Mutating a returned row must not affect the store.
	rows[0]["uuid"] = "tampered"
	again, _ := store.ReadAll(ctx, "listky")
	if again[0]["uuid"] != "a" {
		t.Fatal("returned rows should be copies")
	}
}

func TestMemStoreUpdate(t *testing.T) {
	store := NewMemStore("listky")
	ctx := context.Background()
	_ = store.Append(ctx, "listky", []Row{{"uuid": "a", "zaplaceno": ""}})

	if err := store.Update(ctx, "listky", Row{"uuid": "a"}, Row{"zaplaceno": "123"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "listky")
	if rows[0]["zaplaceno"] != "123" {
		t.Fatalf("update not applied: %v", rows[0])
	}

	if err := store.Update(ctx, "listky", Row{"uuid": "missing"}, Row{"zaplaceno": "1"}); err == nil {
		t.Fatal("expected error updating a missing row")
	}
}

func TestMemStoreDelete(t *testing.T) {
	store := NewMemStore("tx")
	ctx := context.Background()
	_ = store.Append(ctx, "tx", []Row{
		{"id_transakce": "1"},
		{"id_transakce": "2"},
	})

	if err := store.Delete(ctx, "tx", Row{"id_transakce": "1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "tx")
	if len(rows) != 1 || rows[0]["id_transakce"] != "2" {
		t.Fatalf("unexpected rows after delete: %v", rows)
	}

	// Deleting a missing row is a no-op.
	if err := store.Delete(ctx, "tx", Row{"id_transakce": "99"}); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemStoreUnknownTable(t *testing.T) {
	store := NewMemStore()
	if _, err := store.ReadAll(context.Background(), "nope"); err == nil {
		t.Fatal("expected unknown table error")
	}
	if err := store.Append(context.Background(), "nope", []Row{{"uuid": "a"}}); err == nil {
		t.Fatal("expected unknown table error on append")
	}
}

func TestDecodeRowPadsShortCells(t *testing.T) {
	headers := []string{"uuid", "email", "cena"}
	row := decodeRow(headers, []any{"a", "x@y.cz"})
	if row["cena"] != "" {
		t.Fatalf("expected empty cell, got %q", row["cena"])
	}
	if row["email"] != "x@y.cz" {
		t.Fatalf("unexpected email %q", row["email"])
	}
}

func TestEncodeRowFollowsHeaderOrder(t *testing.T) {
	headers := []string{"uuid", "cena"}
	cells := encodeRow(headers, Row{"cena": "350", "uuid": "a", "extra": "ignored"})
	if len(cells) != 2 || cells[0] != "a" || cells[1] != "350" {
		t.Fatalf("unexpected cells: %v", cells)
	}
}

func TestQuoteRange(t *testing.T) {
	if got := quoteRange("listky"); got != "'listky'" {
		t.Fatalf("unexpected range %q", got)
	}
}
