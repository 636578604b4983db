package request

type CreateBookingRequest struct {
	OrderID        string `json:"order_id" validate:"required,uuid4"`
	VisitDate      string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	DocumentType   string `json:"document_type" validate:"required,oneof=passport mainland_travel_permit"`
	DocumentNumber string `json:"document_number" validate:"required,max=50"`
}

type UpdateBookingRequest struct {
	VisitDate string `json:"visit_date" validate:"required,datetime=2006-01-02"`
}
