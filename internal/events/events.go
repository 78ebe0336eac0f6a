// Package events defines message payloads published to the message broker.
package events

// Routing keys for booking events.
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingCancelled = "booking.cancelled"
)

// BookingCreated is published after a booking has been persisted.
// It carries enough data for downstream consumers (notifications,
// analytics) to act without querying the primary database.
type BookingCreated struct {
	BookingID      string  `json:"booking_id"`
	TenantID       string  `json:"tenant_id"`
	CustomerID     *string `json:"customer_id,omitempty"`
	ServiceID      *string `json:"service_id,omitempty"`
	StaffUserID    *string `json:"staff_user_id,omitempty"`
	Status         string  `json:"status"`
	RequestedStart string  `json:"requested_start"`
	RequestedEnd   string  `json:"requested_end"`
	CreatedAt      string  `json:"created_at"`
}

// BookingCancelled is published after a booking has been cancelled.
type BookingCancelled struct {
	BookingID   string  `json:"booking_id"`
	TenantID    string  `json:"tenant_id"`
	Reason      *string `json:"reason,omitempty"`
	CancelledAt string  `json:"cancelled_at"`
}
