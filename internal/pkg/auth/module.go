package auth

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/config"
)

// Module provides session strategy, credential hashing and the call authorizer.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(func() Authorizer { return ContextAuthorizer{} }),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	opts := Options{TTL: p.Config.SessionTTL}
	switch p.Config.AuthStrategy {
	case "", "hmac":
		return NewHMACStrategy(p.Config.AuthSecret, opts), nil
	case "jwt":
		return NewJWTStrategy(p.Config.AuthSecret, opts), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", p.Config.AuthStrategy)
	}
}
