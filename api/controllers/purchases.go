package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strahovfest/vstupenky-backend/api/responses"
	"github.com/strahovfest/vstupenky-backend/api/validators"
	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

type CreatePurchaseBody struct {
	UUID        string `json:"uuid" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"max=256"`
	TicketCount int    `json:"ticket_count" validate:"min=0,max=50"`
	Resource    string `json:"resource" validate:"max=64"`
	Note        string `json:"note" validate:"max=512"`
}

// PaymentInstructions tell the buyer how to wire the money.
type PaymentInstructions struct {
	AccountNumber  string `json:"account_number"`
	IBAN           string `json:"iban,omitempty"`
	VariableSymbol int    `json:"variable_symbol"`
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
}

type purchaseStatusResponse struct {
	UUID        string              `json:"uuid"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	TicketCount int                 `json:"ticket_count"`
	Resource    string              `json:"resource,omitempty"`
	Paid        bool                `json:"paid"`
	TicketCodes []string            `json:"ticket_codes,omitempty"`
	Payment     PaymentInstructions `json:"payment"`
}

func CreatePurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreatePurchaseBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.Reserve(r.Context(), purchases.ReserveInput{
			UUID: body.UUID,
			Buyer: purchases.Buyer{
				Name:    body.Name,
				Email:   body.Email,
				Address: body.Address,
			},
			TicketCount: body.TicketCount,
			Resource:    body.Resource,
			Note:        body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reservation)
	}
}

func NewPurchaseToken(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := svc.NewToken(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"uuid": token})
	}
}

func GetPurchase(svc purchases.Service, tickets config.TicketsConfig, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchase, err := svc.GetByUUID(r.Context(), chi.URLParam(r, "uuid"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchaseStatusResponse{
			UUID:        purchase.UUID,
			Name:        purchase.Buyer.Name,
			Email:       purchase.Buyer.Email,
			TicketCount: purchase.TicketCount,
			Resource:    purchase.Resource,
			Paid:        purchase.Paid(),
			TicketCodes: purchase.TicketCodes,
			Payment: PaymentInstructions{
				AccountNumber:  tickets.AccountNumber,
				IBAN:           tickets.IBAN,
				VariableSymbol: purchase.Symbol,
				Amount:         purchase.Price,
				Currency:       currency,
			},
		})
	}
}

func ListAvailableResources(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available, err := svc.AvailableResources(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, available)
	}
}
