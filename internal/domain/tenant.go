package domain

import "time"

// Tenant is the isolation boundary: every aggregate and every query in the
// system is scoped to exactly one tenant.
type Tenant struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer belongs to a tenant and may be referenced by bookings.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelongsTo reports whether the customer is owned by the given tenant
func (c *Customer) BelongsTo(tenantID string) bool {
	return c.TenantID == tenantID
}

// Service is a bookable offering of a tenant.
type Service struct {
	ID              string
	TenantID        string
	Name            string
	DurationMinutes int
	Price           *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo reports whether the service is owned by the given tenant
func (s *Service) BelongsTo(tenantID string) bool {
	return s.TenantID == tenantID
}
