package order

import "github.com/shopspring/decimal"

// StatusStats aggregates the orders currently in one status.
type StatusStats struct {
	Status      Status          `json:"_id"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	ByStatus     []StatusStats   `json:"byStatus"`
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TodayOrders  int             `json:"todayOrders"`
}
