package recon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/strahovfest/vstupenky-backend/internal/codes"
	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/pkg/fio"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
	"github.com/strahovfest/vstupenky-backend/pkg/metrics"
)

// deliverer sends minted ticket codes to the buyer. A nil error means the
// buyer got them; any error is recorded but never reverses the match.
type deliverer interface {
	Deliver(ctx context.Context, buyerName, buyerEmail, purchaseUUID string, codes []string) error
}

// Summary reports one reconciliation pass.
type Summary struct {
	MatchedUUIDs []string
	// DeliveryErr aggregates per-recipient delivery failures. The matches
	// behind them stand either way.
	DeliveryErr error
	FeedSize    int
	Unmatched   int
}

// Engine matches bank transactions to purchases and maintains the
// unmatched buffer. Runs must never overlap; the caller serializes them.
type Engine struct {
	ledger   purchases.Repository
	buffer   BufferRepository
	delivery deliverer
	currency string
	logg     *logger.Logger
	metrics  *metrics.ReconMetrics
	now      func() time.Time
}

// EngineParams configure the reconciliation engine.
type EngineParams struct {
	Ledger   purchases.Repository
	Buffer   BufferRepository
	Delivery deliverer
	Currency string
	Logger   *logger.Logger
	Metrics  *metrics.ReconMetrics
}

// NewEngine wires the engine. Delivery and Metrics may be nil.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Ledger == nil {
		return nil, fmt.Errorf("purchase ledger required")
	}
	if params.Buffer == nil {
		return nil, fmt.Errorf("unmatched buffer required")
	}
	if params.Currency == "" {
		return nil, fmt.Errorf("expected currency required")
	}
	return &Engine{
		ledger:   params.Ledger,
		buffer:   params.Buffer,
		delivery: params.Delivery,
		currency: params.Currency,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// Reconcile runs one matching pass over the full transaction feed. The
// feed is the complete history, so the pass is idempotent: transactions
// whose id already sits on a purchase are skipped, and an unchanged feed
// yields an empty match set.
func (e *Engine) Reconcile(ctx context.Context, txs []fio.Transaction) (Summary, error) {
	ledger, err := e.ledger.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	buffered, err := e.buffer.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	attributed := make(map[int64]bool, len(ledger))
	for _, p := range ledger {
		if p.Matched() {
			attributed[p.TransactionID] = true
		}
	}

	unattributed := make([]fio.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !attributed[tx.ID] {
			unattributed = append(unattributed, tx)
		}
	}

	// All codes ever issued, growing within this run so two purchases
	// matched by the same pass cannot share a code.
	issued := make(map[string]bool)
	for _, p := range ledger {
		for _, code := range p.TicketCodes {
			issued[code] = true
		}
	}

	matchedTx := make(map[int64]bool)
	summary := Summary{FeedSize: len(txs)}
	var deliveryErr error

	for _, tx := range unattributed {
		purchase := e.match(ledger, tx)
		if purchase == nil {
			continue
		}

		// Zero-price purchases only enter the ledger by hand (guest and
		// crew rows); their codes carry the free prefix. The reserve path
		// always prices above zero.
		minted := codes.NewTicketCodes(purchase.TicketCount, func(c string) bool {
			return issued[c]
		}, purchase.Price == 0)
		for _, code := range minted {
			issued[code] = true
		}

		paidAt := e.now()
		if err := e.ledger.MarkPaid(ctx, purchase.UUID, tx.ID, minted, paidAt); err != nil {
			// Leave the transaction unattributed; the next run retries it.
			if e.logg != nil {
				e.logg.Error(ctx, "marking purchase paid", err)
			}
			continue
		}
		purchase.TransactionID = tx.ID
		purchase.TicketCodes = minted
		purchase.PaidAt = paidAt

		matchedTx[tx.ID] = true
		summary.MatchedUUIDs = append(summary.MatchedUUIDs, purchase.UUID)
		if e.logg != nil {
			e.logg.Info(e.logg.WithPurchase(ctx, purchase.UUID), "purchase matched to transaction")
		}

		if e.delivery != nil {
			if err := e.delivery.Deliver(ctx, purchase.Buyer.Name, purchase.Buyer.Email, purchase.UUID, minted); err != nil {
				deliveryErr = multierr.Append(deliveryErr,
					fmt.Errorf("delivering tickets for purchase %s: %w", purchase.UUID, err))
			}
		}
	}
	summary.DeliveryErr = deliveryErr

	remainder := make([]fio.Transaction, 0, len(unattributed))
	for _, tx := range unattributed {
		if !matchedTx[tx.ID] {
			remainder = append(remainder, tx)
		}
	}
	summary.Unmatched = len(remainder)

	if err := e.syncBuffer(ctx, buffered, txs, remainder); err != nil {
		return summary, err
	}

	if e.metrics != nil {
		e.metrics.AddMatched(len(summary.MatchedUUIDs))
		e.metrics.SetUnmatched(summary.Unmatched)
		e.metrics.SetFeedSize(summary.FeedSize)
		e.metrics.AddDeliveryFailures(len(multierr.Errors(deliveryErr)))
	}
	return summary, nil
}

// match finds the purchase a transaction pays for. First eligible
// purchase in ledger order wins; a duplicated reference is left for
// manual handling rather than erroring.
func (e *Engine) match(ledger []purchases.Purchase, tx fio.Transaction) *purchases.Purchase {
	if tx.Currency != e.currency {
		return nil
	}
	symbol, err := strconv.Atoi(tx.VariableSymbol)
	if err != nil || symbol <= 0 {
		return nil
	}
	for i := range ledger {
		p := &ledger[i]
		if p.Matched() || p.Symbol != symbol {
			continue
		}
		if tx.Amount.LessThan(decimal.NewFromInt(int64(p.Price))) {
			continue
		}
		return p
	}
	return nil
}

// syncBuffer diffs the buffer against this run's outcome: entries whose
// transaction rolled off the feed are deleted, still-unmatched
// transactions not yet buffered are appended, and a buffered transaction
// that just matched is removed.
func (e *Engine) syncBuffer(ctx context.Context, buffered []UnmatchedEntry, feed, remainder []fio.Transaction) error {
	inFeed := make(map[int64]bool, len(feed))
	for _, tx := range feed {
		inFeed[tx.ID] = true
	}
	stillUnmatched := make(map[int64]bool, len(remainder))
	for _, tx := range remainder {
		stillUnmatched[tx.ID] = true
	}

	bufferedIDs := make(map[int64]bool, len(buffered))
	for _, entry := range buffered {
		bufferedIDs[entry.TransactionID] = true
		if !inFeed[entry.TransactionID] || !stillUnmatched[entry.TransactionID] {
			if err := e.buffer.Delete(ctx, entry.TransactionID); err != nil {
				return err
			}
		}
	}

	fresh := make([]UnmatchedEntry, 0, len(remainder))
	for _, tx := range remainder {
		if !bufferedIDs[tx.ID] {
			fresh = append(fresh, entryFromTransaction(tx))
		}
	}
	return e.buffer.Append(ctx, fresh)
}
