package models

import (
	"time"

	"github.com/ashendes/wigshop/internal/orders"
)

// OrderStatus constants
const (
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
	OrderStatusFailed    = "failed"
)

// CheckoutRequest picks the currency the order total is displayed in
type CheckoutRequest struct {
	Currency string `json:"currency"`
}

// CheckoutResponse represents the response after checking out the cart
type CheckoutResponse struct {
	OrderID      string `json:"order_id,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Total        int    `json:"total"`
	Currency     string `json:"currency,omitempty"`
	DisplayTotal string `json:"display_total,omitempty"`
}

// OrdersResponse lists the order log
type OrdersResponse struct {
	Orders []orders.Order `json:"orders"`
	Count  int            `json:"count"`
}

// CartSummary is the cart as the back office sees it
type CartSummary struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// DashboardResponse is the admin dashboard
type DashboardResponse struct {
	Stats        orders.Stats   `json:"stats"`
	Cart         CartSummary    `json:"cart"`
	RecentOrders []orders.Order `json:"recent_orders"`
	GeneratedAt  time.Time      `json:"generated_at"`
}
