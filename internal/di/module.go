package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/adapter/token"
	"github.com/polkiloo/merchpay/internal/app"
	"github.com/polkiloo/merchpay/internal/config"
	"github.com/polkiloo/merchpay/internal/logger"
	"github.com/polkiloo/merchpay/internal/metrics"
	"github.com/polkiloo/merchpay/internal/pkg/auth"
	"github.com/polkiloo/merchpay/internal/server/http/router"
	"github.com/polkiloo/merchpay/internal/storage"
	"github.com/polkiloo/merchpay/internal/storage/cache"
	"github.com/polkiloo/merchpay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		cache.Module,
		token.Module,
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
