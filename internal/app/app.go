package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/adapter/token"
	"github.com/polkiloo/merchpay/internal/config"
	"github.com/polkiloo/merchpay/internal/server/http/handlers"
	"github.com/polkiloo/merchpay/internal/usecase"
	"github.com/polkiloo/merchpay/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewLedgerFacade,
		func(f *LedgerFacade) handlers.LedgerFacade { return f },
		func(c token.Client) usecase.TokenTransferer { return c },
		func(p *worker.CompensationProcessor) usecase.Compensator { return p },
		newHTTPServer,
		newCompensationProcessor,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Tokens   token.Client
	Recorder worker.CompensationRecorder `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

func newCompensationProcessor(p workerParams) *worker.CompensationProcessor {
	return worker.NewCompensationProcessor(
		p.Tokens,
		p.Config.CompensationRetry,
		p.Config.CompensationMaxTry,
		p.Config.CompensationWorkers,
		p.Recorder,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.CompensationProcessor
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting merchpay", slog.String("addr", p.Server.Addr))
			// The start context is cancelled once startup completes.
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			serverErr := p.Server.Shutdown(shutdownCtx)
			p.Worker.Stop()

			if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
				return serverErr
			}
			p.Logger.Info("merchpay stopped")
			return nil
		},
	})
}
