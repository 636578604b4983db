package entity

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFinished  OrderStatus = "finished"
)

// TicketsPerOrder is fixed: every purchase is exactly four tickets.
const TicketsPerOrder = 4

// MaxUnfinishedOrders caps how many non-finished orders a user may hold.
const MaxUnfinishedOrders = 4

type Order struct {
	BaseSimple
	OrderNumber string      `db:"order_number"`
	UserID      uuid.UUID   `db:"user_id"`
	Status      OrderStatus `db:"status"`
	PaymentType PaymentType `db:"payment_type"`

	Items []*OrderItem `db:"-"`
}

type OrderItem struct {
	BaseSimple
	OrderID        uuid.UUID `db:"order_id"`
	AttractionID   string    `db:"attraction_id"`
	AttractionName string    `db:"attraction_name"`
}

// AttractionIDs collects the attraction ids of the order's items, the shape
// the ticketing gateway wants.
func (o *Order) AttractionIDs() []string {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.AttractionID
	}
	return ids
}
