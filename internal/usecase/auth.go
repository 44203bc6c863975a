package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
	pkgAuth "github.com/polkiloo/merchpay/internal/pkg/auth"
)

// AuthUseCase manages wallet credentials and sessions.
type AuthUseCase struct {
	accounts repository.WalletAccountRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(accounts repository.WalletAccountRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, hasher: hasher, tokens: strategy}
}

// Register stores credentials for wallet and opens a session for it.
func (u *AuthUseCase) Register(ctx context.Context, wallet, password string) (*model.WalletAccount, string, error) {
	wallet, err := normalizeWallet(wallet)
	if err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	account, err := u.accounts.Create(ctx, wallet, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(account.Wallet)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// Authenticate validates wallet credentials and opens a session.
func (u *AuthUseCase) Authenticate(ctx context.Context, wallet, password string) (*model.WalletAccount, string, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	account, err := u.accounts.GetByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(account.Wallet)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// ParseToken returns the wallet proven by token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
