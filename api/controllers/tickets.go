package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strahovfest/vstupenky-backend/api/responses"
	"github.com/strahovfest/vstupenky-backend/api/validators"
	"github.com/strahovfest/vstupenky-backend/internal/tickets"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

type RedeemBody struct {
	Code string `json:"code" validate:"required,max=128"`
}

type CheckBatchBody struct {
	Codes []string `json:"codes" validate:"required,min=1,max=100,dive,max=128"`
}

func RedeemTicket(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RedeemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		redemption, err := svc.Redeem(r.Context(), body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, redemption)
	}
}

func UnredeemTicket(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RedeemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unredeem(r.Context(), body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func CheckTickets(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CheckBatchBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		states, err := svc.CheckBatch(r.Context(), chi.URLParam(r, "uuid"), body.Codes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, states)
	}
}
