package adaptor

import (
	"net/http"

	"ticket-purchase/internal/usecase"
	"ticket-purchase/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	payment, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetPaymentByOrder handles GET /api/payments/order/{orderId}
func (h *PaymentHandler) GetPaymentByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	payment, err := h.service.GetPaymentByOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetUserPayments handles GET /api/payments/user/{userId}
func (h *PaymentHandler) GetUserPayments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	payments, err := h.service.GetUserPayments(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// CapturePayment handles GET /api/payments/paypal/capture. PayPal redirects
// the approving user here with the provider token and payer id.
func (h *PaymentHandler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("token")
	payerID := query.Get("payer_id")

	if token == "" {
		utils.ResponseBadRequest(w, "token query parameter is required", nil)
		return
	}

	payment, err := h.service.CapturePayment(r.Context(), token, payerID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "payment captured", payment)
}

// CancelPayment handles POST /api/payments/{id}/cancel
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	if err := h.service.CancelPayment(r.Context(), paymentID); err != nil {
		respondError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "payment cancelled", nil)
}
