package domain

import "time"

// UserRole роль пользователя внутри арендатора
type UserRole string

const (
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// User is a staff account of a tenant. Bookings may reference a staff user
// through their StaffUserID soft reference.
type User struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsTo reports whether the user is owned by the given tenant
func (u *User) BelongsTo(tenantID string) bool {
	return u.TenantID == tenantID
}

// IsAdmin returns true for tenant administrators
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
