package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

type fakeLedger struct {
	purchases []purchases.Purchase
}

func (f *fakeLedger) List(ctx context.Context) ([]purchases.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeLedger) FindByUUID(ctx context.Context, uuid string) (*purchases.Purchase, error) {
	for i := range f.purchases {
		if f.purchases[i].UUID == uuid {
			return &f.purchases[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) Append(ctx context.Context, purchase purchases.Purchase) error {
	f.purchases = append(f.purchases, purchase)
	return nil
}

func (f *fakeLedger) MarkPaid(ctx context.Context, uuid string, txID int64, codes []string, paidAt time.Time) error {
	return nil
}

func paidPurchase(uuid string, codes ...string) purchases.Purchase {
	return purchases.Purchase{
		UUID:        uuid,
		Buyer:       purchases.Buyer{Name: "Jan Novak", Email: "jan@example.com"},
		PaidAt:      time.UnixMilli(1717000000000),
		TicketCodes: codes,
	}
}

func newTestService(t *testing.T, ledger *fakeLedger) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Ledger: ledger,
		Usage:  NewUsageRepository(sheetdb.NewMemStore("pouzite_vstupenky"), "pouzite_vstupenky"),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRedeemLifecycle(t *testing.T) {
	ledger := &fakeLedger{purchases: []purchases.Purchase{
		paidPurchase("p-1", "rychly-gepard"),
	}}
	svc := newTestService(t, ledger)
	ctx := context.Background()

	first, err := svc.Redeem(ctx, "rychly-gepard")
	if err != nil {
		t.Fatalf("first Redeem: %v", err)
	}
	if first.State != StateValid {
		t.Fatalf("first state = %q, want valid", first.State)
	}
	if first.BuyerName != "Jan Novak" {
		t.Errorf("buyer = %q", first.BuyerName)
	}

	second, err := svc.Redeem(ctx, "rychly-gepard")
	if err != nil {
		t.Fatalf("second Redeem: %v", err)
	}
	if second.State != StateUsed {
		t.Errorf("second state = %q, want used", second.State)
	}
	if second.UsedAt.UnixMilli() != first.UsedAt.UnixMilli() {
		t.Errorf("used state lost the original timestamp")
	}

	if err := svc.Unredeem(ctx, "rychly-gepard"); err != nil {
		t.Fatalf("Unredeem: %v", err)
	}
	third, err := svc.Redeem(ctx, "rychly-gepard")
	if err != nil {
		t.Fatalf("third Redeem: %v", err)
	}
	if third.State != StateValid {
		t.Errorf("state after unredeem = %q, want valid", third.State)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := newTestService(t, &fakeLedger{})

	res, err := svc.Redeem(context.Background(), "neznamy-kod")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if res.State != StateInvalid {
		t.Errorf("state = %q, want invalid", res.State)
	}
	if res.BuyerName != "" || !res.UsedAt.IsZero() {
		t.Errorf("invalid result carries identity fields: %+v", res)
	}
}

func TestRedeemUnpaidPurchaseCode(t *testing.T) {
	unpaid := purchases.Purchase{UUID: "p-1", TicketCodes: []string{"predcasny-kod"}}
	svc := newTestService(t, &fakeLedger{purchases: []purchases.Purchase{unpaid}})

	res, err := svc.Redeem(context.Background(), "predcasny-kod")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if res.State != StateInvalid {
		t.Errorf("code on an unpaid purchase redeemed as %q", res.State)
	}
}

func TestRedeemMalformedCode(t *testing.T) {
	svc := newTestService(t, &fakeLedger{})
	for _, code := range []string{"", "   "} {
		res, err := svc.Redeem(context.Background(), code)
		if err != nil {
			t.Fatalf("Redeem(%q): %v", code, err)
		}
		if res.State != StateInvalid {
			t.Errorf("Redeem(%q) = %q, want invalid", code, res.State)
		}
	}
}

func TestUnredeemUnknownCodeIsNoop(t *testing.T) {
	svc := newTestService(t, &fakeLedger{})
	if err := svc.Unredeem(context.Background(), "neznamy-kod"); err != nil {
		t.Errorf("Unredeem of unknown code: %v", err)
	}
}

func TestCheckBatch(t *testing.T) {
	ledger := &fakeLedger{purchases: []purchases.Purchase{
		paidPurchase("p-1", "prvni-kod", "druhy-kod"),
		paidPurchase("p-2", "cizi-kod"),
	}}
	svc := newTestService(t, ledger)
	ctx := context.Background()

	if _, err := svc.Redeem(ctx, "prvni-kod"); err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	states, err := svc.CheckBatch(ctx, "p-1", []string{"prvni-kod", "druhy-kod", "cizi-kod", "vymysleny"})
	if err != nil {
		t.Fatalf("CheckBatch: %v", err)
	}
	want := map[string]State{
		"prvni-kod": StateUsed,
		"druhy-kod": StateValid,
		// Real code, but belongs to a different purchase.
		"cizi-kod":  StateInvalid,
		"vymysleny": StateInvalid,
	}
	for _, cs := range states {
		if cs.State != want[cs.Code] {
			t.Errorf("%s = %q, want %q", cs.Code, cs.State, want[cs.Code])
		}
	}
}

func TestCheckBatchDoesNotMutate(t *testing.T) {
	ledger := &fakeLedger{purchases: []purchases.Purchase{
		paidPurchase("p-1", "klidny-kod"),
	}}
	svc := newTestService(t, ledger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		states, err := svc.CheckBatch(ctx, "p-1", []string{"klidny-kod"})
		if err != nil {
			t.Fatalf("CheckBatch: %v", err)
		}
		if states[0].State != StateValid {
			t.Fatalf("pass %d: state = %q, want valid", i, states[0].State)
		}
	}

	res, err := svc.Redeem(ctx, "klidny-kod")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if res.State != StateValid {
		t.Errorf("CheckBatch consumed the code: %q", res.State)
	}
}

func TestCheckBatchUnknownPurchase(t *testing.T) {
	svc := newTestService(t, &fakeLedger{})
	states, err := svc.CheckBatch(context.Background(), "missing", []string{"kod"})
	if err != nil {
		t.Fatalf("CheckBatch: %v", err)
	}
	if states[0].State != StateInvalid {
		t.Errorf("state = %q, want invalid", states[0].State)
	}
}
