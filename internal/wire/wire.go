// internal/wire/wire.go
package wire

import (
	"net/http"

	"ticket-purchase/internal/adaptor"
	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/internal/usecase"
	"ticket-purchase/internal/worker"
	"ticket-purchase/pkg/database"
	"ticket-purchase/pkg/middleware"
	"ticket-purchase/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router    *chi.Mux
	Scheduler *worker.Scheduler
}

// Wiring menginisialisasi semua dependencies
func Wiring(db database.PgxIface, config *utils.Config, logger *zap.Logger) *App {
	bookingGW := gateway.NewBookingGateway(config.Gateway.BookingBaseURL, config.Gateway.Timeout, logger)
	ticketing := gateway.NewTicketingGateway(config.Gateway.TicketingBaseURL, config.Gateway.Timeout, logger)

	providers := map[entity.PaymentType]gateway.PaymentProvider{
		entity.PaymentTypePayPal: gateway.NewPayPalProvider(config.PayPal, config.Gateway.Timeout, logger),
		entity.PaymentTypeStripe: gateway.NewStripeProvider(config.Stripe, config.Gateway.Timeout, logger),
	}

	service := usecase.NewService(db, config, bookingGW, ticketing, providers, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, db, logger)

	return &App{
		Router:    router,
		Scheduler: worker.NewScheduler(service, config, logger),
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, db database.PgxIface, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Apply routes
	wirePurchase(r, handler.Purchase)
	wireOrder(r, handler.Order)
	wireBooking(r, handler.Booking)
	wirePayment(r, handler.Payment)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unreachable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
