package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Booking, error)
	ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error)
	ExistsByUserIDAndVisitDate(ctx context.Context, userID uuid.UUID, visitDate time.Time) (bool, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
	UpdateTicketSubmission(ctx context.Context, bookingID uuid.UUID, status entity.TicketSubmissionStatus, submittedAt *time.Time) error
	FindForTicketSubmission(ctx context.Context, visitDate time.Time) ([]*entity.Booking, error)
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, user_id, visit_date, document_type, document_number,
	status, ticket_submission_status, ticket_submitted_at, created_at, updated_at`

func (r *bookingRepository) scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.VisitDate,
		&booking.DocumentType,
		&booking.DocumentNumber,
		&booking.Status,
		&booking.TicketSubmissionStatus,
		&booking.TicketSubmittedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.VisitDate,
		booking.DocumentType,
		booking.DocumentNumber,
		booking.Status,
		booking.TicketSubmissionStatus,
		booking.TicketSubmittedAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateKey
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking for order %s: %w", booking.OrderID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, orderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find booking by order ID %s: %w", orderID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE order_id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, orderID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking existence by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return false, fmt.Errorf("check booking for order %s: %w", orderID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) ExistsByUserIDAndVisitDate(ctx context.Context, userID uuid.UUID, visitDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND visit_date = $2 AND status != $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, visitDate, entity.BookingStatusCancelled).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking existence by user and visit date",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Time("visit_date", visitDate),
		)
		return false, fmt.Errorf("check booking for user %s on %s: %w", userID.String(), visitDate.Format("2006-01-02"), err)
	}

	return exists, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY visit_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET visit_date = $2, document_type = $3, document_number = $4, status = $5,
		    ticket_submission_status = $6, ticket_submitted_at = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.VisitDate,
		booking.DocumentType,
		booking.DocumentNumber,
		booking.Status,
		booking.TicketSubmissionStatus,
		booking.TicketSubmittedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) UpdateTicketSubmission(ctx context.Context, bookingID uuid.UUID, status entity.TicketSubmissionStatus, submittedAt *time.Time) error {
	query := `
		UPDATE bookings
		SET ticket_submission_status = $2, ticket_submitted_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, bookingID, status, submittedAt)
	if err != nil {
		r.log.Error("Failed to update ticket submission status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update ticket submission for booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) FindForTicketSubmission(ctx context.Context, visitDate time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE visit_date = $1 AND status = $2 AND ticket_submission_status IN ($3, $4)
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query,
		visitDate,
		entity.BookingStatusConfirmed,
		entity.TicketsNotSubmitted,
		entity.TicketsFailed,
	)
	if err != nil {
		r.log.Error("Failed to find bookings for ticket submission",
			zap.Error(err),
			zap.Time("visit_date", visitDate),
		)
		return nil, fmt.Errorf("find bookings for submission on %s: %w", visitDate.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET ticket_submission_status = $1, updated_at = NOW()
		WHERE visit_date < $2 AND ticket_submission_status IN ($3, $4)
	`

	result, err := r.db.Exec(ctx, query,
		entity.TicketsExpired,
		today,
		entity.TicketsNotSubmitted,
		entity.TicketsFailed,
	)
	if err != nil {
		r.log.Error("Failed to expire overdue ticket submissions", zap.Error(err))
		return 0, fmt.Errorf("expire overdue ticket submissions: %w", err)
	}

	return result.RowsAffected(), nil
}
