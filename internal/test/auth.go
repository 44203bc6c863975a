package test

import (
	"context"
	"errors"

	pkgAuth "github.com/polkiloo/merchpay/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses session tokens via function overrides.
// By default a token is "session:" followed by the wallet.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

const sessionPrefix = "session:"

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(wallet string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(wallet)
	}
	return sessionPrefix + wallet, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if len(token) <= len(sessionPrefix) || token[:len(sessionPrefix)] != sessionPrefix {
		return "", pkgAuth.ErrInvalidToken
	}
	return token[len(sessionPrefix):], nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Wallet  string
	Err     error
	ParseFn func(string) (string, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Wallet, nil
}

// AuthFacadeStub simulates wallet session interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, wallet, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, wallet, password)
	}
	return sessionPrefix + wallet, nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, wallet, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, wallet, password)
	}
	return sessionPrefix + wallet, nil
}

// ParseToken resolves the wallet behind a session token.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return StrategyStub{}.ParseToken(token)
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
