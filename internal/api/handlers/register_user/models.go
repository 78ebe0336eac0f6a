package register_user

// RegisterUserRequest HTTP request model
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // "staff" или "admin", по умолчанию staff
}
