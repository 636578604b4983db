package request

type TicketRequest struct {
	AttractionID   string `json:"attraction_id" validate:"required,max=50"`
	AttractionName string `json:"attraction_name" validate:"required,max=100"`
}

type CreatePurchaseRequest struct {
	UserID         string          `json:"user_id" validate:"required,uuid4"`
	VisitDate      *string         `json:"visit_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DocumentType   *string         `json:"document_type,omitempty" validate:"omitempty,oneof=passport mainland_travel_permit"`
	DocumentNumber *string         `json:"document_number,omitempty" validate:"omitempty,max=50"`
	Tickets        []TicketRequest `json:"tickets" validate:"required,len=4,dive"`
	PaymentMethod  string          `json:"payment_method" validate:"omitempty,oneof=paypal stripe"`
}

// HasBooking reports whether the purchase also books a visit date.
func (r *CreatePurchaseRequest) HasBooking() bool {
	return r.VisitDate != nil && *r.VisitDate != ""
}
