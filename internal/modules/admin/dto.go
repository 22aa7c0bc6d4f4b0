package admin

type StatisticsResponse struct {
	PendingVendors      int64            `json:"pending_vendors"`
	PendingCustomers    int64            `json:"pending_customers"`
	ApprovedCustomers   int64            `json:"approved_customers"`
	ApprovedHalls       int64            `json:"approved_halls"`
	PendingHallRequests int64            `json:"pending_hall_requests"`
	BookingsByStatus    map[string]int64 `json:"bookings_by_status"`
}
