package auth

import (
	"context"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
)

type walletKey struct{}

// WithWallet returns ctx carrying the wallet proven by the caller's session.
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletKey{}, wallet)
}

// WalletFromContext returns the authenticated wallet, if any.
func WalletFromContext(ctx context.Context) (string, bool) {
	wallet, ok := ctx.Value(walletKey{}).(string)
	return wallet, ok && wallet != ""
}

// Authorizer asserts that the current call carries proof of control over wallet.
type Authorizer interface {
	RequireAuth(ctx context.Context, wallet string) error
}

// ContextAuthorizer checks the wallet stored in context by the session middleware.
type ContextAuthorizer struct{}

// RequireAuth fails with ErrUnauthorized unless ctx proves control over wallet.
func (ContextAuthorizer) RequireAuth(ctx context.Context, wallet string) error {
	proven, ok := WalletFromContext(ctx)
	if !ok || proven != wallet {
		return domainErrors.ErrUnauthorized
	}
	return nil
}
