package response

import (
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/utils"
)

type BookingResponse struct {
	ID                     string                        `json:"id"`
	OrderID                string                        `json:"order_id"`
	UserID                 string                        `json:"user_id"`
	VisitDate              string                        `json:"visit_date"`
	DocumentType           entity.DocumentType           `json:"document_type"`
	DocumentNumber         string                        `json:"document_number"`
	Status                 entity.BookingStatus          `json:"status"`
	TicketSubmissionStatus entity.TicketSubmissionStatus `json:"ticket_submission_status"`
	TicketSubmittedAt      *time.Time                    `json:"ticket_submitted_at,omitempty"`
	CreatedAt              time.Time                     `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                     booking.ID.String(),
		OrderID:                booking.OrderID.String(),
		UserID:                 booking.UserID.String(),
		VisitDate:              utils.FormatDate(booking.VisitDate),
		DocumentType:           booking.DocumentType,
		DocumentNumber:         booking.DocumentNumber,
		Status:                 booking.Status,
		TicketSubmissionStatus: booking.TicketSubmissionStatus,
		TicketSubmittedAt:      booking.TicketSubmittedAt,
		CreatedAt:              booking.CreatedAt,
	}
}
