package wire

import (
	"ticket-purchase/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	r.Route("/api/payments", func(r chi.Router) {
		// GET /api/payments/paypal/capture - PayPal approval redirect target
		r.Get("/paypal/capture", paymentHandler.CapturePayment)

		// GET /api/payments/order/{orderId} - Payment for an order
		r.Get("/order/{orderId}", paymentHandler.GetPaymentByOrder)

		// GET /api/payments/user/{userId} - All payments of a user
		r.Get("/user/{userId}", paymentHandler.GetUserPayments)

		// GET /api/payments/{id} - Payment details
		r.Get("/{id}", paymentHandler.GetPayment)

		// POST /api/payments/{id}/cancel - Cancel a pending payment
		r.Post("/{id}/cancel", paymentHandler.CancelPayment)
	})
}
