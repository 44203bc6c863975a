package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/usecase"
	"github.com/polkiloo/merchpay/internal/worker"
)

// Module exposes the metrics registry and the ports it implements.
var Module = fx.Provide(
	New,
	func(r *Registry) usecase.Metrics { return r },
	func(r *Registry) worker.CompensationRecorder { return r },
)
