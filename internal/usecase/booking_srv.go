package usecase

import (
	"context"
	"errors"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/dto/response"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, orderID, userID uuid.UUID, visitDate time.Time, docType entity.DocumentType, docNumber string) (*entity.Booking, error)
	CreateFromRequest(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]response.BookingResponse, int64, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	SubmitTickets(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	bookingGW gateway.BookingGateway
	ticketing gateway.TicketingGateway
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	bookingGW gateway.BookingGateway,
	ticketing gateway.TicketingGateway,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		bookingGW: bookingGW,
		ticketing: ticketing,
		log:       log.With(zap.String("service", "booking")),
	}
}

// Create inserts a booking and tries to confirm it with the external booking
// system. A gateway failure here is soft: the booking stays pending and the
// overall operation still succeeds.
func (s *bookingService) Create(ctx context.Context, orderID, userID uuid.UUID, visitDate time.Time, docType entity.DocumentType, docNumber string) (*entity.Booking, error) {
	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Order", orderID.String())
	}

	exists, err := s.repo.Booking.ExistsByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.BusinessRule(apperrors.CodeBookingAlreadyExists,
			"a booking already exists for this order")
	}

	visitDate = utils.ToDate(visitDate)
	if visitDate.Before(utils.Tomorrow()) {
		return nil, apperrors.BusinessRule(apperrors.CodeInvalidVisitDate,
			"visit date must be at least tomorrow")
	}

	taken, err := s.repo.Booking.ExistsByUserIDAndVisitDate(ctx, userID, visitDate)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.BusinessRule(apperrors.CodeOneBookingPerUserPerDay,
			"user already has a booking for this visit date")
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:                orderID,
		UserID:                 userID,
		VisitDate:              visitDate,
		DocumentType:           docType,
		DocumentNumber:         docNumber,
		Status:                 entity.BookingStatusPending,
		TicketSubmissionStatus: entity.TicketsNotSubmitted,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.BusinessRule(apperrors.CodeOneBookingPerUserPerDay,
				"user already has a booking for this visit date")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.bookingGW.Make(ctx, booking); err != nil {
		s.log.Warn("External booking confirmation failed, booking stays pending",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return booking, nil
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.UpdatedAt = time.Now()
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("visit_date", utils.FormatDate(visitDate)),
	)

	return booking, nil
}

func (s *bookingService) CreateFromRequest(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.Validation(utils.FormatValidationErrors(errs))
	}

	orderID, err := utils.ParseUUID(req.OrderID)
	if err != nil {
		return nil, apperrors.Validation("invalid order ID format")
	}

	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Order", req.OrderID)
	}

	visitDate, err := utils.ParseDate(req.VisitDate)
	if err != nil {
		return nil, apperrors.Validation("invalid visit date format, expected YYYY-MM-DD")
	}

	booking, err := s.Create(ctx, orderID, order.UserID, visitDate,
		entity.DocumentType(req.DocumentType), req.DocumentNumber)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]response.BookingResponse, int64, error) {
	id, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, 0, apperrors.Validation("invalid user ID format")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, id, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, id)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	responses := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, response.BookingToResponse(booking))
	}

	return responses, total, nil
}

// UpdateBooking moves the booking to a new visit date. Like Create, the
// external update is soft: on failure the booking drops back to pending until
// the gateway confirms.
func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.Validation(utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if utils.IsPastDate(booking.VisitDate) {
		return nil, apperrors.BusinessRule(apperrors.CodeCannotUpdatePastBooking,
			"cannot update a booking whose visit date has passed")
	}

	newDate, err := utils.ParseDate(req.VisitDate)
	if err != nil {
		return nil, apperrors.Validation("invalid visit date format, expected YYYY-MM-DD")
	}
	newDate = utils.ToDate(newDate)

	if newDate.Before(utils.Tomorrow()) {
		return nil, apperrors.BusinessRule(apperrors.CodeInvalidVisitDate,
			"visit date must be at least tomorrow")
	}

	if !newDate.Equal(booking.VisitDate) {
		taken, err := s.repo.Booking.ExistsByUserIDAndVisitDate(ctx, booking.UserID, newDate)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if taken {
			return nil, apperrors.BusinessRule(apperrors.CodeOneBookingPerUserPerDay,
				"user already has a booking for this visit date")
		}
	}

	previousDate := booking.VisitDate
	booking.VisitDate = newDate
	booking.Status = entity.BookingStatusPending
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.bookingGW.Update(ctx, booking, previousDate); err != nil {
		s.log.Warn("External booking update failed, booking stays pending",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.UpdatedAt = time.Now()
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CancelBooking requires the external system to acknowledge: a gateway failure
// is hard and leaves the booking untouched.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if utils.IsPastDate(booking.VisitDate) {
		return apperrors.BusinessRule(apperrors.CodeCannotCancelPastBooking,
			"cannot cancel a booking whose visit date has passed")
	}

	if err := s.bookingGW.Cancel(ctx, booking); err != nil {
		return apperrors.ExternalService("booking system", err)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return apperrors.Internal(err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", booking.ID.String()))
	return nil
}

// SubmitTickets is the manual submission path. Unlike the purchase flow, a
// gateway failure here surfaces to the caller.
func (s *bookingService) SubmitTickets(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusConfirmed {
		return nil, apperrors.BusinessRule(apperrors.CodeInvalidBookingStatus,
			"tickets can only be submitted for confirmed bookings")
	}

	if booking.TicketSubmissionStatus == entity.TicketsSubmitted {
		return nil, apperrors.BusinessRule(apperrors.CodeTicketsAlreadySubmitted,
			"tickets have already been submitted for this booking")
	}

	if utils.IsPastDate(booking.VisitDate) {
		return nil, apperrors.BusinessRule(apperrors.CodeCannotSubmitPastTickets,
			"cannot submit tickets for a past visit date")
	}

	order, err := s.repo.Order.FindByID(ctx, booking.OrderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Order", booking.OrderID.String())
	}

	if err := s.ticketing.Submit(ctx, booking, order.AttractionIDs()); err != nil {
		if updErr := s.repo.Booking.UpdateTicketSubmission(ctx, booking.ID, entity.TicketsFailed, nil); updErr != nil {
			s.log.Error("Failed to record submission failure", zap.Error(updErr))
		}
		return nil, apperrors.ExternalService("ticketing system", err)
	}

	now := time.Now()
	if err := s.repo.Booking.UpdateTicketSubmission(ctx, booking.ID, entity.TicketsSubmitted, &now); err != nil {
		return nil, apperrors.Internal(err)
	}

	booking.TicketSubmissionStatus = entity.TicketsSubmitted
	booking.TicketSubmittedAt = &now

	s.log.Info("Tickets submitted manually", zap.String("booking_id", booking.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := utils.ParseUUID(bookingID)
	if err != nil {
		return nil, apperrors.Validation("invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking", bookingID)
	}

	return booking, nil
}
