package dto

// ── auth DTO ──

// LoginRequest username / password login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest password change of the current identity
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"         binding:"required"`
	NewPassword        string `json:"new_password"         binding:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}
