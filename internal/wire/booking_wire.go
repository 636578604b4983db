package wire

import (
	"ticket-purchase/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Book a visit date for an existing order
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - Booking details
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id} - Move the booking to a new visit date
		r.Put("/{id}", bookingHandler.UpdateBooking)

		// DELETE /api/bookings/{id} - Cancel the booking
		r.Delete("/{id}", bookingHandler.CancelBooking)

		// POST /api/bookings/{id}/tickets - Submit tickets manually
		r.Post("/{id}/tickets", bookingHandler.SubmitTickets)
	})

	// GET /api/users/{userId}/bookings - Booking history of a user
	r.Get("/api/users/{userId}/bookings", bookingHandler.GetUserBookings)
}
