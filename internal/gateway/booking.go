package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

// BookingGateway talks to the park's visit booking system. Update carries the
// date being vacated so the partner can release it in the same call.
type BookingGateway interface {
	Make(ctx context.Context, booking *entity.Booking) error
	Update(ctx context.Context, booking *entity.Booking, previousDate time.Time) error
	Cancel(ctx context.Context, booking *entity.Booking) error
}

type bookingGateway struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewBookingGateway(baseURL string, timeout time.Duration, log *zap.Logger) BookingGateway {
	return &bookingGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("gateway", "booking")),
	}
}

type bookingPayload struct {
	BookingRef        string `json:"bookingRef"`
	VisitDate         string `json:"visitDate"`
	PreviousVisitDate string `json:"previousVisitDate,omitempty"`
	DocumentType      string `json:"documentType"`
	DocumentNumber    string `json:"documentNumber"`
}

func toBookingPayload(booking *entity.Booking) bookingPayload {
	return bookingPayload{
		BookingRef:     booking.ID.String(),
		VisitDate:      utils.FormatDate(booking.VisitDate),
		DocumentType:   string(booking.DocumentType),
		DocumentNumber: booking.DocumentNumber,
	}
}

func (g *bookingGateway) Make(ctx context.Context, booking *entity.Booking) error {
	err := g.send(ctx, http.MethodPost, "/bookings", toBookingPayload(booking))
	if err != nil {
		g.log.Error("Failed to make external booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("make booking %s: %w", booking.ID.String(), err)
	}

	g.log.Info("External booking made", zap.String("booking_id", booking.ID.String()))
	return nil
}

func (g *bookingGateway) Update(ctx context.Context, booking *entity.Booking, previousDate time.Time) error {
	path := "/bookings/" + booking.ID.String()
	payload := toBookingPayload(booking)
	payload.PreviousVisitDate = utils.FormatDate(previousDate)
	err := g.send(ctx, http.MethodPut, path, payload)
	if err != nil {
		g.log.Error("Failed to update external booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	g.log.Info("External booking updated", zap.String("booking_id", booking.ID.String()))
	return nil
}

func (g *bookingGateway) Cancel(ctx context.Context, booking *entity.Booking) error {
	path := "/bookings/" + booking.ID.String()
	err := g.send(ctx, http.MethodDelete, path, nil)
	if err != nil {
		g.log.Error("Failed to cancel external booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", booking.ID.String(), err)
	}

	g.log.Info("External booking cancelled", zap.String("booking_id", booking.ID.String()))
	return nil
}

func (g *bookingGateway) send(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	return nil
}
