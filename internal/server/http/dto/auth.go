package dto

// AuthRequest describes wallet/password payload.
type AuthRequest struct {
	Wallet   string `json:"wallet"`
	Password string `json:"password"`
}

// TokenResponse carries the issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}
