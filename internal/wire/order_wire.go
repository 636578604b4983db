package wire

import (
	"ticket-purchase/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler) {
	// GET /api/orders/{id} - Order details with its ticket items
	r.Get("/api/orders/{id}", orderHandler.GetOrder)

	// GET /api/users/{userId}/orders - All orders of a user
	r.Get("/api/users/{userId}/orders", orderHandler.GetUserOrders)
}
