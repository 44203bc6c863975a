package usecase

import (
	"strings"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
)

const (
	minWalletLength = 3
	maxWalletLength = 128
)

// ValidateWallet checks that wallet is a well-formed identity: 3 to 128
// characters drawn from letters, digits, '_', '-' and '.'.
func ValidateWallet(wallet string) error {
	if len(wallet) < minWalletLength || len(wallet) > maxWalletLength {
		return domainErrors.ErrInvalidWallet
	}
	for _, r := range wallet {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return domainErrors.ErrInvalidWallet
		}
	}
	return nil
}

// normalizeWallet strips surrounding whitespace before validation.
func normalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if err := ValidateWallet(wallet); err != nil {
		return "", err
	}
	return wallet, nil
}
