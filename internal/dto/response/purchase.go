package response

type PurchaseResponse struct {
	Order   OrderResponse    `json:"order"`
	Payment PaymentResponse  `json:"payment"`
	Booking *BookingResponse `json:"booking,omitempty"`
	Message string           `json:"message"`
}
