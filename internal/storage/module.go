package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/config"
	"github.com/polkiloo/merchpay/internal/domain/repository"
	"github.com/polkiloo/merchpay/internal/storage/memory"
	"github.com/polkiloo/merchpay/internal/storage/postgres"
)

// Backend is a ledger store that also keeps wallet credentials.
type Backend interface {
	repository.Store
	Accounts() repository.WalletAccountRepository
	Close()
}

// Module selects PostgreSQL when a DSN is configured and the in-memory store otherwise.
var Module = fx.Options(
	fx.Provide(newBackend),
	fx.Provide(
		func(b Backend) repository.Store { return b },
		func(b Backend) repository.WalletAccountRepository { return b.Accounts() },
	),
	fx.Invoke(registerLifecycle),
)

type backendParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newBackend(p backendParams) (Backend, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Warn("database uri is empty, using in-memory storage")
		return memory.New(), nil
	}
	st, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func registerLifecycle(lc fx.Lifecycle, backend Backend) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			backend.Close()
			return nil
		},
	})
}
