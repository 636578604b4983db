package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/dto/response"
	"ticket-purchase/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type purchaseServiceStub struct {
	resp   *response.PurchaseResponse
	cached []byte
	err    error
	calls  int
	keys   []string
}

func (s *purchaseServiceStub) PurchaseAndBook(_ context.Context, key string, _ *request.CreatePurchaseRequest) (*response.PurchaseResponse, []byte, error) {
	s.calls++
	s.keys = append(s.keys, key)
	return s.resp, s.cached, s.err
}

func purchaseBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"user_id":        "0b2f9e76-3f9a-4b86-8f2e-0a53f25e1f10",
		"payment_method": "paypal",
		"tickets": []map[string]string{
			{"attraction_id": "ATTR-1", "attraction_name": "One"},
			{"attraction_id": "ATTR-2", "attraction_name": "Two"},
			{"attraction_id": "ATTR-3", "attraction_name": "Three"},
			{"attraction_id": "ATTR-4", "attraction_name": "Four"},
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func doPurchase(stub *purchaseServiceStub, key string, body *bytes.Buffer) *httptest.ResponseRecorder {
	handler := NewPurchaseHandler(stub, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", body)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.CreatePurchase(rec, req)
	return rec
}

func TestCreatePurchase_Success(t *testing.T) {
	stub := &purchaseServiceStub{
		resp: &response.PurchaseResponse{
			Message: "Purchase completed successfully. You can book a visit date separately if needed.",
		},
	}

	rec := doPurchase(stub, "purchase-key-01", purchaseBody(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"purchase-key-01"}, stub.keys)

	var envelope struct {
		Status  bool                       `json:"status"`
		Message string                     `json:"message"`
		Data    *response.PurchaseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
	assert.Equal(t, stub.resp.Message, envelope.Data.Message)
}

func TestCreatePurchase_ReplayBodyMatchesOriginal(t *testing.T) {
	resp := &response.PurchaseResponse{Message: "Purchase completed successfully. You can book a visit date separately if needed."}

	fresh := doPurchase(&purchaseServiceStub{resp: resp}, "replay-key-001", purchaseBody(t))
	require.Equal(t, http.StatusOK, fresh.Code)

	cached, err := json.Marshal(resp)
	require.NoError(t, err)

	replay := doPurchase(&purchaseServiceStub{cached: cached}, "replay-key-001", purchaseBody(t))
	require.Equal(t, http.StatusOK, replay.Code)

	assert.Equal(t, fresh.Body.Bytes(), replay.Body.Bytes())
}

func TestCreatePurchase_MissingIdempotencyKey(t *testing.T) {
	stub := &purchaseServiceStub{}

	rec := doPurchase(stub, "", purchaseBody(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Idempotency-Key header is required")
	assert.Zero(t, stub.calls)
}

func TestCreatePurchase_MalformedIdempotencyKey(t *testing.T) {
	stub := &purchaseServiceStub{}

	rec := doPurchase(stub, "short", purchaseBody(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provided key length: 5")
	assert.Zero(t, stub.calls)
}

func TestCreatePurchase_InvalidBody(t *testing.T) {
	stub := &purchaseServiceStub{}

	rec := doPurchase(stub, "purchase-key-01", bytes.NewBufferString("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
	assert.Zero(t, stub.calls)
}

func TestCreatePurchase_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "idempotency conflict",
			err:      apperrors.IdempotencyConflict(apperrors.CodeRequestInProgress, "A request with this idempotency key is already being processed"),
			wantCode: http.StatusConflict,
			wantBody: "already being processed",
		},
		{
			name:     "business rule",
			err:      apperrors.BusinessRule(apperrors.CodeInvalidTicketCount, "Must select exactly 4 tickets"),
			wantCode: http.StatusBadRequest,
			wantBody: apperrors.CodeInvalidTicketCount,
		},
		{
			name:     "not found",
			err:      apperrors.NotFound("User", "0b2f9e76-3f9a-4b86-8f2e-0a53f25e1f10"),
			wantCode: http.StatusNotFound,
			wantBody: "User not found",
		},
		{
			name:     "external service",
			err:      apperrors.ExternalService("PayPal", assert.AnError),
			wantCode: http.StatusBadGateway,
			wantBody: "PayPal is temporarily unavailable",
		},
		{
			name:     "unknown error stays opaque",
			err:      assert.AnError,
			wantCode: http.StatusInternalServerError,
			wantBody: "an unexpected error occurred",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doPurchase(&purchaseServiceStub{err: tc.err}, "purchase-key-01", purchaseBody(t))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
			if tc.wantCode == http.StatusInternalServerError {
				assert.False(t, strings.Contains(rec.Body.String(), assert.AnError.Error()))
			}
		})
	}
}
