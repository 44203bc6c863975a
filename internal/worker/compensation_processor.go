package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/merchpay/internal/adapter/token"
	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
)

// Compensation outcomes reported to CompensationRecorder. CompensationNotApplied
// means a reconciled transfer was never applied, so nothing was reversed.
const (
	CompensationSucceeded  = "succeeded"
	CompensationFailed     = "failed"
	CompensationDropped    = "dropped"
	CompensationNotApplied = "not_applied"
)

const queuePerWorker = 64

// Transferer executes token transfers.
type Transferer interface {
	Transfer(ctx context.Context, transfer model.Transfer) error
}

// CompensationRecorder counts compensation outcomes.
type CompensationRecorder interface {
	ObserveCompensation(result string)
}

// job is a reverse transfer, optionally preceded by confirming the transfer it
// undoes.
type job struct {
	confirm *model.Transfer
	reverse model.Transfer
}

// CompensationProcessor retries reverse transfers for token movements whose
// ledger commit failed, and reconciles transfers whose outcome is unknown.
type CompensationProcessor struct {
	transfers   Transferer
	retry       time.Duration
	maxAttempts int
	workers     int
	recorder    CompensationRecorder
	logger      *slog.Logger

	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCompensationProcessor constructs compensation worker pool. recorder may be nil.
func NewCompensationProcessor(transfers Transferer, retry time.Duration, maxAttempts, workers int, recorder CompensationRecorder, logger *slog.Logger) *CompensationProcessor {
	if workers <= 0 {
		workers = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &CompensationProcessor{
		transfers:   transfers,
		retry:       retry,
		maxAttempts: maxAttempts,
		workers:     workers,
		recorder:    recorder,
		logger:      logger,
		jobs:        make(chan job, queuePerWorker*workers),
	}
}

// Enqueue schedules transfer without blocking. When the queue is full the
// transfer is logged and dropped.
func (p *CompensationProcessor) Enqueue(transfer model.Transfer) {
	p.push(job{reverse: transfer})
}

// Reconcile schedules original to be resent under its own ID. The token
// service deduplicates by that ID, so a success means original is applied
// and reverse is executed next. A refusal means it never was.
func (p *CompensationProcessor) Reconcile(original, reverse model.Transfer) {
	p.push(job{confirm: &original, reverse: reverse})
}

func (p *CompensationProcessor) push(j job) {
	select {
	case p.jobs <- j:
	default:
		p.logger.Error("compensation queue full, transfer dropped", j.attrs()...)
		p.observe(CompensationDropped)
	}
}

// Start launches background processing.
func (p *CompensationProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}
}

// Stop waits for all workers to finish. Transfers still queued are logged.
func (p *CompensationProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()

	for {
		select {
		case j := <-p.jobs:
			p.logger.Error("compensation abandoned on shutdown", j.attrs()...)
			p.observe(CompensationDropped)
		default:
			return
		}
	}
}

func (p *CompensationProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			p.handle(ctx, j)
		}
	}
}

func (p *CompensationProcessor) handle(ctx context.Context, j job) {
	if j.confirm != nil {
		result, err := p.deliver(ctx, *j.confirm)
		switch {
		case result == CompensationDropped:
			p.observe(CompensationDropped)
			return
		case result == CompensationFailed && errors.Is(err, domainErrors.ErrTransferRejected):
			p.logger.Info("unconfirmed transfer was not applied", transferAttrs(*j.confirm)...)
			p.observe(CompensationNotApplied)
			return
		case result == CompensationFailed:
			p.logger.Error("unconfirmed transfer left unresolved", j.attrs()...)
			p.observe(CompensationFailed)
			return
		}
	}

	result, _ := p.deliver(ctx, j.reverse)
	p.observe(result)
}

// deliver sends transfer until it is accepted, refused, out of attempts or
// interrupted, and returns the matching outcome with the last error.
func (p *CompensationProcessor) deliver(ctx context.Context, transfer model.Transfer) (string, error) {
	for attempt := 1; ; attempt++ {
		err := p.transfers.Transfer(ctx, transfer)
		if err == nil {
			p.logger.Info("compensation transfer completed", append(transferAttrs(transfer), slog.Int("attempt", attempt))...)
			return CompensationSucceeded, nil
		}

		attrs := append(transferAttrs(transfer), slog.Int("attempt", attempt), slog.String("error", err.Error()))
		if errors.Is(err, domainErrors.ErrTransferRejected) || attempt >= p.maxAttempts {
			p.logger.Error("compensation transfer failed", attrs...)
			return CompensationFailed, err
		}

		wait := p.retry
		var tooMany token.TooManyRequestsError
		if errors.As(err, &tooMany) {
			wait = tooMany.RetryAfter
		}
		p.logger.Warn("compensation transfer will be retried", append(attrs, slog.Duration("retry_after", wait))...)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Error("compensation abandoned on shutdown", transferAttrs(transfer)...)
			return CompensationDropped, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *CompensationProcessor) observe(result string) {
	if p.recorder != nil {
		p.recorder.ObserveCompensation(result)
	}
}

func transferAttrs(transfer model.Transfer) []any {
	return []any{
		slog.String("transfer_id", transfer.ID),
		slog.String("token", transfer.Token),
		slog.String("from", transfer.From),
		slog.String("to", transfer.To),
		slog.Uint64("amount", transfer.Amount),
	}
}

func (j job) attrs() []any {
	attrs := transferAttrs(j.reverse)
	if j.confirm != nil {
		attrs = append(attrs, slog.String("unconfirmed_transfer_id", j.confirm.ID))
	}
	return attrs
}
