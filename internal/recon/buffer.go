package recon

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/fio"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

// Buffer table column headers.
const (
	colTxID      = "id_transakce"
	colTimestamp = "timestamp"
	colAmount    = "castka"
	colSymbol    = "variabilni_symbol"
	colAccount   = "ucet"
	colPayerName = "jmeno"
)

// UnmatchedEntry is one buffered bank transaction that could not be
// attributed to a purchase yet. Keyed by the bank's transaction id.
type UnmatchedEntry struct {
	TransactionID int64
	Timestamp     string
	Amount        string
	Symbol        string
	Account       string
	PayerName     string
}

func entryFromTransaction(tx fio.Transaction) UnmatchedEntry {
	account := tx.CounterAccount.Account
	if tx.CounterAccount.BankCode != "" {
		account += "/" + tx.CounterAccount.BankCode
	}
	return UnmatchedEntry{
		TransactionID: tx.ID,
		Timestamp:     strconv.FormatInt(tx.Timestamp.UnixMilli(), 10),
		Amount:        amountString(tx.Currency, tx.Amount),
		Symbol:        tx.VariableSymbol,
		Account:       account,
		PayerName:     tx.CounterAccount.Name,
	}
}

func entryFromRow(row sheetdb.Row) UnmatchedEntry {
	id, _ := strconv.ParseInt(row[colTxID], 10, 64)
	return UnmatchedEntry{
		TransactionID: id,
		Timestamp:     row[colTimestamp],
		Amount:        row[colAmount],
		Symbol:        row[colSymbol],
		Account:       row[colAccount],
		PayerName:     row[colPayerName],
	}
}

func entryToRow(entry UnmatchedEntry) sheetdb.Row {
	return sheetdb.Row{
		colTxID:      strconv.FormatInt(entry.TransactionID, 10),
		colTimestamp: entry.Timestamp,
		colAmount:    entry.Amount,
		colSymbol:    entry.Symbol,
		colAccount:   entry.Account,
		colPayerName: entry.PayerName,
	}
}

// BufferRepository persists the unmatched transaction buffer.
type BufferRepository interface {
	List(ctx context.Context) ([]UnmatchedEntry, error)
	Append(ctx context.Context, entries []UnmatchedEntry) error
	Delete(ctx context.Context, txID int64) error
	// UsedSymbols exposes the payment references buffered transactions
	// already carry, so reservation never hands one out again.
	UsedSymbols(ctx context.Context) ([]int, error)
}

type bufferRepository struct {
	store sheetdb.Store
	table string
}

// NewBufferRepository binds the buffer to its table.
func NewBufferRepository(store sheetdb.Store, table string) BufferRepository {
	return &bufferRepository{store: store, table: table}
}

func (r *bufferRepository) List(ctx context.Context) ([]UnmatchedEntry, error) {
	rows, err := r.store.ReadAll(ctx, r.table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading unmatched buffer")
	}
	entries := make([]UnmatchedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

func (r *bufferRepository) Append(ctx context.Context, entries []UnmatchedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]sheetdb.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryToRow(entry))
	}
	if err := r.store.Append(ctx, r.table, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending unmatched entries")
	}
	return nil
}

func (r *bufferRepository) Delete(ctx context.Context, txID int64) error {
	where := sheetdb.Row{colTxID: strconv.FormatInt(txID, 10)}
	if err := r.store.Delete(ctx, r.table, where); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting unmatched entry")
	}
	return nil
}

func (r *bufferRepository) UsedSymbols(ctx context.Context) ([]int, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]int, 0, len(entries))
	for _, entry := range entries {
		if symbol, err := strconv.Atoi(entry.Symbol); err == nil && symbol > 0 {
			symbols = append(symbols, symbol)
		}
	}
	return symbols, nil
}

// amountString formats a decimal amount with its currency the way buffer
// rows store it.
func amountString(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}
