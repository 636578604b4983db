package adaptor

import (
	"encoding/json"
	"net/http"

	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/usecase"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

const idempotencyKeyHeader = "Idempotency-Key"

type PurchaseHandler struct {
	service usecase.PurchaseService
	log     *zap.Logger
}

func NewPurchaseHandler(service usecase.PurchaseService, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		log:     log.With(zap.String("handler", "purchase")),
	}
}

// CreatePurchase handles POST /api/purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(idempotencyKeyHeader)
	if msg := utils.ValidateIdempotencyKey(key); msg != "" {
		utils.ResponseBadRequest(w, msg, nil)
		return
	}

	var req request.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, cached, err := h.service.PurchaseAndBook(r.Context(), key, &req)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	// Replays must be byte-identical to the first response, so the cached
	// payload is embedded untouched.
	if cached != nil {
		utils.ResponseJSON(w, http.StatusOK, true, "success", json.RawMessage(cached), nil)
		return
	}

	utils.ResponseJSON(w, http.StatusOK, true, "success", resp, nil)
}
