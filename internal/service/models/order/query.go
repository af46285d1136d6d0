package order

import "time"

// QueryOrdersModel represents filter parameters for querying orders.
// Results are always sorted newest first.
type QueryOrdersModel struct {
	Ids          []int64
	Codes        []string
	Phone        string
	Statuses     []Status
	CreatedSince *time.Time
	Limit        int
	Offset       int
}
