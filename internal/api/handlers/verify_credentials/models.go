package verify_credentials

// VerifyCredentialsRequest HTTP request model
type VerifyCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
