package purchases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strahovfest/vstupenky-backend/internal/catalog"
	"github.com/strahovfest/vstupenky-backend/internal/codes"
	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

// symbolSource yields payment references held by buffered unmatched
// transactions; those must never be reissued to a new purchase.
type symbolSource interface {
	UsedSymbols(ctx context.Context) ([]int, error)
}

// Service is the reservation surface of the purchase ledger.
type Service interface {
	Reserve(ctx context.Context, input ReserveInput) (*Reservation, error)
	GetByUUID(ctx context.Context, uuid string) (*Purchase, error)
	NewToken(ctx context.Context) (string, error)
	AvailableResources(ctx context.Context) ([]catalog.Resource, error)
}

// ReserveInput is a validated reservation request.
type ReserveInput struct {
	UUID        string
	Buyer       Buyer
	TicketCount int
	Resource    string
	Note        string
}

// Reservation is what the buyer needs to pay: the assigned reference and
// the total owed. Replayed reservations return the original values.
type Reservation struct {
	UUID   string `json:"uuid"`
	Symbol int    `json:"variable_symbol"`
	Price  int    `json:"price"`
}

// ServiceParams configure the purchase service.
type ServiceParams struct {
	Repo      Repository
	Buffer    symbolSource
	Catalog   catalog.Service
	UnitPrice int
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	buffer    symbolSource
	catalog   catalog.Service
	unitPrice int
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the purchase ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if params.Buffer == nil {
		return nil, fmt.Errorf("unmatched buffer required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("resource catalog required")
	}
	if params.UnitPrice <= 0 {
		return nil, fmt.Errorf("unit price must be positive")
	}
	return &service{
		repo:      params.Repo,
		buffer:    params.Buffer,
		catalog:   params.Catalog,
		unitPrice: params.UnitPrice,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

func (s *service) Reserve(ctx context.Context, input ReserveInput) (*Reservation, error) {
	if _, err := uuid.Parse(input.UUID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed purchase token")
	}
	if input.TicketCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket count must not be negative")
	}
	if input.TicketCount == 0 && input.Resource == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a purchase must buy at least one ticket or a resource")
	}
	if strings.TrimSpace(input.Buyer.Name) == "" || strings.TrimSpace(input.Buyer.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name and email are required")
	}

	// Fresh read on every call: the store has no holds, so availability and
	// used references are recomputed from current state.
	ledger, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if existing := findByUUID(ledger, input.UUID); existing != nil {
		if existing.Buyer == input.Buyer {
			return &Reservation{UUID: existing.UUID, Symbol: existing.Symbol, Price: existing.Price}, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "purchase token already used by a different buyer")
	}

	resourcePrice := 0
	if input.Resource != "" {
		price, err := s.resourcePrice(ctx, ledger, input.Resource)
		if err != nil {
			return nil, err
		}
		resourcePrice = price
	}

	bufferedSymbols, err := s.buffer.UsedSymbols(ctx)
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool, len(ledger)+len(bufferedSymbols))
	for _, p := range ledger {
		used[p.Symbol] = true
	}
	for _, symbol := range bufferedSymbols {
		used[symbol] = true
	}

	seed := []string{input.Buyer.Name, input.Buyer.Email, input.Buyer.Address}
	symbol := codes.NewSymbol(seed, func(candidate int) bool { return used[candidate] })

	purchase := Purchase{
		UUID:        input.UUID,
		Buyer:       input.Buyer,
		CreatedAt:   s.now(),
		Price:       s.unitPrice*input.TicketCount + resourcePrice,
		TicketCount: input.TicketCount,
		Symbol:      symbol,
		Resource:    input.Resource,
		Note:        input.Note,
	}
	if err := s.repo.Append(ctx, purchase); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithPurchase(ctx, purchase.UUID), "purchase reserved")
	}
	return &Reservation{UUID: purchase.UUID, Symbol: purchase.Symbol, Price: purchase.Price}, nil
}

func (s *service) GetByUUID(ctx context.Context, id string) (*Purchase, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such purchase")
	}
	purchase, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no such purchase")
	}
	return purchase, nil
}

func (s *service) NewToken(ctx context.Context) (string, error) {
	ledger, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(ledger))
	for _, p := range ledger {
		taken[p.UUID] = true
	}
	return codes.NewUUID(func(candidate string) bool { return taken[candidate] }), nil
}

func (s *service) AvailableResources(ctx context.Context) ([]catalog.Resource, error) {
	ledger, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.availableResources(ctx, ledger)
}

func (s *service) availableResources(ctx context.Context, ledger []Purchase) ([]catalog.Resource, error) {
	all, err := s.catalog.Resources(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing resource catalog")
	}

	taken := make(map[string]bool)
	for _, p := range ledger {
		if p.Resource != "" {
			taken[p.Resource] = true
		}
	}

	available := make([]catalog.Resource, 0, len(all))
	for _, resource := range all {
		if !taken[resource.Name] {
			available = append(available, resource)
		}
	}
	return available, nil
}

func (s *service) resourcePrice(ctx context.Context, ledger []Purchase, name string) (int, error) {
	available, err := s.availableResources(ctx, ledger)
	if err != nil {
		return 0, err
	}
	for _, resource := range available {
		if resource.Name == name {
			return resource.Price, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeValidation, "requested resource is not available").
		WithDetails(map[string]string{"resource": name})
}

func findByUUID(ledger []Purchase, id string) *Purchase {
	for i := range ledger {
		if ledger[i].UUID == id {
			return &ledger[i]
		}
	}
	return nil
}
