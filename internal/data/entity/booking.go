package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type TicketSubmissionStatus string

const (
	TicketsNotSubmitted TicketSubmissionStatus = "not_submitted"
	TicketsSubmitted    TicketSubmissionStatus = "submitted"
	TicketsFailed       TicketSubmissionStatus = "failed"
	// TicketsExpired: visit date passed without a successful submission.
	TicketsExpired TicketSubmissionStatus = "expired"
)

type DocumentType string

const (
	DocumentTypePassport             DocumentType = "passport"
	DocumentTypeMainlandTravelPermit DocumentType = "mainland_travel_permit"
)

type Booking struct {
	Base
	OrderID        uuid.UUID     `db:"order_id"`
	UserID         uuid.UUID     `db:"user_id"`
	VisitDate      time.Time     `db:"visit_date"`
	DocumentType   DocumentType  `db:"document_type"`
	DocumentNumber string        `db:"document_number"`
	Status         BookingStatus `db:"status"`

	TicketSubmissionStatus TicketSubmissionStatus `db:"ticket_submission_status"`
	TicketSubmittedAt      *time.Time             `db:"ticket_submitted_at"`
}
