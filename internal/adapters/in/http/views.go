package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
)

type orderItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type orderHistoryView struct {
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id"`
	Note    string    `json:"note,omitempty"`
}

type orderView struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id"`
	VendorID      string             `json:"vendor_id"`
	CourierID     *string            `json:"courier_id,omitempty"`
	Status        string             `json:"status"`
	Items         []orderItemView    `json:"items"`
	History       []orderHistoryView `json:"history"`
	Subtotal      int64              `json:"subtotal"`
	DeliveryFee   int64              `json:"delivery_fee"`
	ServiceFee    int64              `json:"service_fee"`
	Discount      int64              `json:"discount"`
	Total         int64              `json:"total"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
	DeliveredAt   *time.Time         `json:"delivered_at,omitempty"`
}

func toOrderView(resp queries.GetOrderQueryResponse) orderView {
	view := orderView{
		ID:            resp.ID.String(),
		Number:        resp.Number,
		CustomerID:    resp.CustomerID.String(),
		VendorID:      resp.VendorID.String(),
		Status:        resp.Status,
		Items:         make([]orderItemView, 0, len(resp.Items)),
		History:       make([]orderHistoryView, 0, len(resp.History)),
		Subtotal:      resp.Subtotal,
		DeliveryFee:   resp.DeliveryFee,
		ServiceFee:    resp.ServiceFee,
		Discount:      resp.Discount,
		Total:         resp.Total,
		Address:       resp.Address,
		PaymentMethod: resp.PaymentMethod,
		PaymentStatus: resp.PaymentStatus,
		CreatedAt:     resp.CreatedAt,
		DeliveredAt:   resp.DeliveredAt,
	}

	if resp.CourierID != nil {
		id := resp.CourierID.String()
		view.CourierID = &id
	}

	for _, item := range resp.Items {
		view.Items = append(view.Items, orderItemView(item))
	}
	for _, change := range resp.History {
		view.History = append(view.History, orderHistoryView(change))
	}

	return view
}
