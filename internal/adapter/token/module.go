package token

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/config"
)

// Module exposes token service client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.TokenServiceAddress, p.Logger)
}
