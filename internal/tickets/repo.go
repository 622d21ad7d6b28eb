package tickets

import (
	"context"

	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

// UsageRepository persists the single-use redemption ledger.
type UsageRepository interface {
	Find(ctx context.Context, code string) (*UsageEntry, error)
	Append(ctx context.Context, entry UsageEntry) error
	Delete(ctx context.Context, code string) error
}

type usageRepository struct {
	store sheetdb.Store
	table string
}

// NewUsageRepository binds the usage ledger to its table.
func NewUsageRepository(store sheetdb.Store, table string) UsageRepository {
	return &usageRepository{store: store, table: table}
}

func (r *usageRepository) Find(ctx context.Context, code string) (*UsageEntry, error) {
	rows, err := r.store.ReadAll(ctx, r.table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading usage ledger")
	}
	for _, row := range rows {
		if row[colCode] == code {
			entry := usageFromRow(row)
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *usageRepository) Append(ctx context.Context, entry UsageEntry) error {
	if err := r.store.Append(ctx, r.table, []sheetdb.Row{usageToRow(entry)}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "appending usage entry")
	}
	return nil
}

func (r *usageRepository) Delete(ctx context.Context, code string) error {
	if err := r.store.Delete(ctx, r.table, sheetdb.Row{colCode: code}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting usage entry")
	}
	return nil
}
