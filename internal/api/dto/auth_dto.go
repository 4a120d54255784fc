package dto

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	IsRememberMe bool   `json:"isRememberMe"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser identifies the caller inside auth responses.
type SessionUser struct {
	ID        string `json:"id"`
	ProfileID string `json:"profileId"`
}

// AuthData is the data payload returned by login and register.
type AuthData struct {
	AccessToken string      `json:"access_token"`
	User        SessionUser `json:"user"`
}
