package model

import "time"

// WalletAccount holds credentials proving control over a wallet.
type WalletAccount struct {
	ID           int64
	Wallet       string
	PasswordHash string
	CreatedAt    time.Time
}
