package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/pkg/fio"
)

type fakeFeed struct {
	txs []fio.Transaction
	err error
}

func (f *fakeFeed) Transactions(ctx context.Context) ([]fio.Transaction, error) {
	return f.txs, f.err
}

func TestJobRunReconcilesFeed(t *testing.T) {
	ledger := &fakeLedger{purchases: []purchases.Purchase{
		openPurchase("p-1", 12345678, 500, 1),
	}}
	engine := newTestEngine(t, ledger, &fakeBufferRepo{}, nil)

	tx := fio.Transaction{ID: 1, Amount: decimal.NewFromInt(500), Currency: "CZK", VariableSymbol: "12345678"}
	job, err := NewJob(engine, &fakeFeed{txs: []fio.Transaction{tx}}, nil)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ledger.purchases[0].Paid() {
		t.Errorf("feed transaction did not pay the purchase")
	}
}

func TestJobRunPropagatesFeedError(t *testing.T) {
	engine := newTestEngine(t, &fakeLedger{}, &fakeBufferRepo{}, nil)
	job, err := NewJob(engine, &fakeFeed{err: errors.New("bank api down")}, nil)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run returned nil on feed failure")
	}
}
