package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

// Service validates and redeems ticket codes at the gate.
//
// Redemption is check-and-set over a plain append: the store cannot
// arbitrate two concurrent redemptions of the same code, so a narrow
// window exists in which both could observe "unused" and both append.
// Gate operators scan one code at a time, which keeps the window
// theoretical.
type Service interface {
	Redeem(ctx context.Context, code string) (*Redemption, error)
	Unredeem(ctx context.Context, code string) error
	CheckBatch(ctx context.Context, purchaseUUID string, codes []string) ([]CodeState, error)
}

// Redemption is the gate's answer for one scanned code.
type Redemption struct {
	State      State     `json:"state"`
	BuyerName  string    `json:"buyer_name"`
	BuyerEmail string    `json:"buyer_email"`
	UsedAt     time.Time `json:"used_at"`
}

// CodeState pairs one code with its current state.
type CodeState struct {
	Code  string `json:"code"`
	State State  `json:"state"`
}

// ServiceParams configure the ticket service.
type ServiceParams struct {
	Ledger purchases.Repository
	Usage  UsageRepository
	Logger *logger.Logger
}

type service struct {
	ledger purchases.Repository
	usage  UsageRepository
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the ticket validation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Ledger == nil {
		return nil, fmt.Errorf("purchase ledger required")
	}
	if params.Usage == nil {
		return nil, fmt.Errorf("usage repository required")
	}
	return &service{
		ledger: params.Ledger,
		usage:  params.Usage,
		logg:   params.Logger,
		now:    time.Now,
	}, nil
}

func (s *service) Redeem(ctx context.Context, code string) (*Redemption, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return &Redemption{State: StateInvalid}, nil
	}

	owner, err := s.findOwner(ctx, code)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return &Redemption{State: StateInvalid}, nil
	}

	entry, err := s.usage.Find(ctx, code)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return &Redemption{
			State:      StateUsed,
			BuyerName:  owner.Buyer.Name,
			BuyerEmail: owner.Buyer.Email,
			UsedAt:     entry.UsedAt,
		}, nil
	}

	usedAt := s.now()
	if err := s.usage.Append(ctx, UsageEntry{Code: code, UsedAt: usedAt}); err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "code", code), "ticket redeemed")
	}
	return &Redemption{
		State:      StateValid,
		BuyerName:  owner.Buyer.Name,
		BuyerEmail: owner.Buyer.Email,
		UsedAt:     usedAt,
	}, nil
}

func (s *service) Unredeem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if err := s.usage.Delete(ctx, code); err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "code", code), "ticket redemption reverted")
	}
	return nil
}

func (s *service) CheckBatch(ctx context.Context, purchaseUUID string, codes []string) ([]CodeState, error) {
	purchase, err := s.ledger.FindByUUID(ctx, purchaseUUID)
	if err != nil {
		return nil, err
	}

	states := make([]CodeState, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		state := StateInvalid
		if purchase != nil && purchase.Paid() && purchase.HasCode(code) {
			entry, err := s.usage.Find(ctx, code)
			if err != nil {
				return nil, err
			}
			if entry != nil {
				state = StateUsed
			} else {
				state = StateValid
			}
		}
		states = append(states, CodeState{Code: code, State: state})
	}
	return states, nil
}

// findOwner scans the ledger for the paid purchase carrying this code.
func (s *service) findOwner(ctx context.Context, code string) (*purchases.Purchase, error) {
	ledger, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ledger {
		if ledger[i].Paid() && ledger[i].HasCode(code) {
			return &ledger[i], nil
		}
	}
	return nil, nil
}
