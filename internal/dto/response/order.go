package response

import (
	"time"

	"ticket-purchase/internal/data/entity"
)

type OrderItemResponse struct {
	ID             string `json:"id"`
	AttractionID   string `json:"attraction_id"`
	AttractionName string `json:"attraction_name"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	UserID      string              `json:"user_id"`
	Status      entity.OrderStatus  `json:"status"`
	PaymentType entity.PaymentType  `json:"payment_type"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

func OrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:             item.ID.String(),
			AttractionID:   item.AttractionID,
			AttractionName: item.AttractionName,
		})
	}

	return OrderResponse{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Status:      order.Status,
		PaymentType: order.PaymentType,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}
