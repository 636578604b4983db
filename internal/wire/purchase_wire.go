package wire

import (
	"ticket-purchase/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePurchase(r chi.Router, purchaseHandler *adaptor.PurchaseHandler) {
	// POST /api/purchases - Buy tickets, optionally booking a visit date.
	// Requires an Idempotency-Key header.
	r.Post("/api/purchases", purchaseHandler.CreatePurchase)
}
