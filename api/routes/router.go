package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strahovfest/vstupenky-backend/api/controllers"
	"github.com/strahovfest/vstupenky-backend/api/middleware"
	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/internal/tickets"
	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
	"github.com/strahovfest/vstupenky-backend/pkg/redis"
)

// RouterParams carry everything the HTTP surface needs.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	Redis     *redis.Client
	Purchases purchases.Service
	Tickets   tickets.Service
	Registry  *prometheus.Registry
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	var redisPinger redis.Pinger
	if params.Redis != nil {
		redisPinger = params.Redis
	}
	r.Route("/healthz", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Post("/", controllers.CreatePurchase(params.Purchases, logg))
		r.Get("/new-token", controllers.NewPurchaseToken(params.Purchases, logg))
		r.Get("/resources", controllers.ListAvailableResources(params.Purchases, logg))
		r.Get("/{uuid}", controllers.GetPurchase(params.Purchases, cfg.Tickets, cfg.Bank.Currency, logg))
		r.Post("/{uuid}/tickets/check", controllers.CheckTickets(params.Tickets, logg))
	})

	r.Route("/api/v1/tickets", func(r chi.Router) {
		r.Use(middleware.GateAuth(cfg.Gate.Token, logg))
		r.Post("/redeem", controllers.RedeemTicket(params.Tickets, logg))
		r.Post("/unredeem", controllers.UnredeemTicket(params.Tickets, logg))
	})

	return r
}
