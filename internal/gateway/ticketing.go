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

// TicketingGateway submits purchased tickets to the park's ticketing system
// ahead of the visit date.
type TicketingGateway interface {
	Submit(ctx context.Context, booking *entity.Booking, attractionIDs []string) error
}

type ticketingGateway struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewTicketingGateway(baseURL string, timeout time.Duration, log *zap.Logger) TicketingGateway {
	return &ticketingGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("gateway", "ticketing")),
	}
}

type ticketSubmission struct {
	BookingRef     string   `json:"bookingRef"`
	VisitDate      string   `json:"visitDate"`
	DocumentNumber string   `json:"documentNumber"`
	AttractionIDs  []string `json:"attractionIds"`
}

func (g *ticketingGateway) Submit(ctx context.Context, booking *entity.Booking, attractionIDs []string) error {
	payload, err := json.Marshal(ticketSubmission{
		BookingRef:     booking.ID.String(),
		VisitDate:      utils.FormatDate(booking.VisitDate),
		DocumentNumber: booking.DocumentNumber,
		AttractionIDs:  attractionIDs,
	})
	if err != nil {
		return fmt.Errorf("marshal ticket submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/tickets", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("Failed to submit tickets",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("submit tickets for booking %s: %w", booking.ID.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		g.log.Error("Ticket submission rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("submit tickets returned %d: %s", resp.StatusCode, string(respBody))
	}

	g.log.Info("Tickets submitted",
		zap.String("booking_id", booking.ID.String()),
		zap.Int("ticket_count", len(attractionIDs)),
	)

	return nil
}
