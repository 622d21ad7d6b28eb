package purchases

import (
	"context"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

// Repository manages persistence for purchase records.
type Repository interface {
	List(ctx context.Context) ([]Purchase, error)
	FindByUUID(ctx context.Context, uuid string) (*Purchase, error)
	Append(ctx context.Context, purchase Purchase) error
	// MarkPaid sets the payment fields in one write; it is the only
	// mutation a purchase row ever receives.
	MarkPaid(ctx context.Context, uuid string, txID int64, codes []string, paidAt time.Time) error
}

type repository struct {
	store sheetdb.Store
	table string
}

// NewRepository returns a purchase repository bound to the given table.
func NewRepository(store sheetdb.Store, table string) Repository {
	return &repository{store: store, table: table}
}

func (r *repository) List(ctx context.Context) ([]Purchase, error) {
	rows, err := r.store.ReadAll(ctx, r.table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading purchase ledger")
	}
	purchases := make([]Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, purchaseFromRow(row))
	}
	return purchases, nil
}

func (r *repository) FindByUUID(ctx context.Context, uuid string) (*Purchase, error) {
	purchases, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		if purchases[i].UUID == uuid {
			return &purchases[i], nil
		}
	}
	return nil, nil
}

func (r *repository) Append(ctx context.Context, purchase Purchase) error {
	if err := r.store.Append(ctx, r.table, []sheetdb.Row{purchaseToRow(purchase)}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending purchase")
	}
	return nil
}

func (r *repository) MarkPaid(ctx context.Context, uuid string, txID int64, codes []string, paidAt time.Time) error {
	fields := sheetdb.Row{
		colTxID:        strconv.FormatInt(txID, 10),
		colTicketCodes: strings.Join(codes, ", "),
		colPaidAt:      timeToMillis(paidAt),
	}
	if err := r.store.Update(ctx, r.table, sheetdb.Row{colUUID: uuid}, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking purchase paid")
	}
	return nil
}
