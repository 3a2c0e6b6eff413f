package auth

// RegisterRequest represents the payload for registering a new user.
type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=72"` // bcrypt input cap
}

// LoginRequest represents the payload for logging in an existing user.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=72"`
}

// AuthResponse represents the payload returned after a successful
// registration or login.
type AuthResponse struct {
	Email string
	Token string
}
