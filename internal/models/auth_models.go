package models

// Operator is the single account allowed to use the dashboard.
type Operator struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// LoginRequest is used for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	Username    string `json:"username"`
}
