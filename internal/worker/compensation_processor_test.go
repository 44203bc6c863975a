package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/merchpay/internal/adapter/token"
	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	testhelpers "github.com/polkiloo/merchpay/internal/test"
)

type recorderStub struct {
	mu      sync.Mutex
	results []string
}

func (r *recorderStub) ObserveCompensation(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recorderStub) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func reverseTransfer() model.Transfer {
	return model.Transfer{
		ID:     "comp-1",
		Token:  "USDC",
		From:   "GMERCHANT01",
		To:     "GCUSTOMER01",
		Amount: 3,
		Reason: model.TransferReasonCompensation,
	}
}

func waitForResults(t *testing.T, recorder *recorderStub, n int) []string {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if results := recorder.snapshot(); len(results) >= n {
			return results
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %d compensation results, got %v", n, recorder.snapshot())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewCompensationProcessorDefaults(t *testing.T) {
	proc := NewCompensationProcessor(&testhelpers.TokenTransfererStub{}, time.Second, 0, 0, nil, testLogger())
	if proc.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", proc.workers)
	}
	if proc.maxAttempts != 1 {
		t.Fatalf("expected attempts default to 1, got %d", proc.maxAttempts)
	}
	if cap(proc.jobs) != queuePerWorker {
		t.Fatalf("expected queue capacity %d, got %d", queuePerWorker, cap(proc.jobs))
	}
}

func TestCompensationProcessorExecutesTransfer(t *testing.T) {
	tokens := &testhelpers.TokenTransfererStub{}
	recorder := &recorderStub{}
	proc := NewCompensationProcessor(tokens, time.Millisecond, 3, 1, recorder, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)
	proc.Enqueue(reverseTransfer())

	results := waitForResults(t, recorder, 1)
	proc.Stop()

	if results[0] != CompensationSucceeded {
		t.Fatalf("expected success, got %v", results)
	}
	transfers := tokens.Transfers()
	if len(transfers) != 1 || transfers[0] != reverseTransfer() {
		t.Fatalf("unexpected transfers %+v", transfers)
	}
}

func TestCompensationProcessorRetriesTransientErrors(t *testing.T) {
	var attempts int32
	tokens := &testhelpers.TokenTransfererStub{
		TransferFn: func(context.Context, model.Transfer) error {
			switch atomic.AddInt32(&attempts, 1) {
			case 1:
				return token.TooManyRequestsError{RetryAfter: 5 * time.Millisecond}
			case 2:
				return errors.New("connection reset")
			default:
				return nil
			}
		},
	}
	recorder := &recorderStub{}
	proc := NewCompensationProcessor(tokens, time.Millisecond, 5, 1, recorder, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)
	proc.Enqueue(reverseTransfer())

	results := waitForResults(t, recorder, 1)
	proc.Stop()

	if results[0] != CompensationSucceeded {
		t.Fatalf("expected eventual success, got %v", results)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestCompensationProcessorGivesUp(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		wantAttempts int32
	}{
		{name: "attempts exhausted", err: errors.New("unavailable"), wantAttempts: 3},
		{name: "rejected", err: domainErrors.ErrTransferRejected, wantAttempts: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var attempts int32
			tokens := &testhelpers.TokenTransfererStub{
				TransferFn: func(context.Context, model.Transfer) error {
					atomic.AddInt32(&attempts, 1)
					return tc.err
				},
			}
			recorder := &recorderStub{}
			proc := NewCompensationProcessor(tokens, time.Millisecond, 3, 1, recorder, testLogger())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			proc.Start(ctx)
			proc.Enqueue(reverseTransfer())

			results := waitForResults(t, recorder, 1)
			proc.Stop()

			if results[0] != CompensationFailed {
				t.Fatalf("expected failure, got %v", results)
			}
			if got := atomic.LoadInt32(&attempts); got != tc.wantAttempts {
				t.Fatalf("expected %d attempts, got %d", tc.wantAttempts, got)
			}
		})
	}
}

func TestCompensationProcessorDropsWhenQueueFull(t *testing.T) {
	recorder := &recorderStub{}
	proc := NewCompensationProcessor(&testhelpers.TokenTransfererStub{}, time.Millisecond, 1, 1, recorder, testLogger())

	for i := 0; i < queuePerWorker+1; i++ {
		proc.Enqueue(reverseTransfer())
	}

	results := recorder.snapshot()
	if len(results) != 1 || results[0] != CompensationDropped {
		t.Fatalf("expected one dropped transfer, got %v", results)
	}
}

func TestCompensationProcessorStopReportsQueuedTransfers(t *testing.T) {
	recorder := &recorderStub{}
	proc := NewCompensationProcessor(&testhelpers.TokenTransfererStub{}, time.Millisecond, 1, 1, recorder, testLogger())

	proc.Enqueue(reverseTransfer())
	proc.Enqueue(reverseTransfer())
	proc.Stop()

	results := recorder.snapshot()
	if len(results) != 2 || results[0] != CompensationDropped || results[1] != CompensationDropped {
		t.Fatalf("expected queued transfers to be reported as dropped, got %v", results)
	}
}

func TestCompensationProcessorStopInterruptsRetryWait(t *testing.T) {
	tokens := &testhelpers.TokenTransfererStub{Err: errors.New("unavailable")}
	recorder := &recorderStub{}
	proc := NewCompensationProcessor(tokens, time.Hour, 5, 1, recorder, testLogger())

	proc.Start(context.Background())
	proc.Enqueue(reverseTransfer())

	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		proc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not interrupt retry wait")
	}

	if results := recorder.snapshot(); len(results) != 1 || results[0] != CompensationDropped {
		t.Fatalf("expected abandoned compensation, got %v", results)
	}
}

func unconfirmedTransfer() model.Transfer {
	return model.Transfer{
		ID:     "pay-1",
		Token:  "USDC",
		From:   "GCUSTOMER01",
		To:     "GMERCHANT01",
		Amount: 3,
		Reason: model.TransferReasonPayment,
	}
}

func TestCompensationProcessorReconcile(t *testing.T) {
	cases := []struct {
		name          string
		original      func(attempt int32) error
		want          string
		wantTransfers []string
	}{
		{
			name:          "applied transfer is reversed",
			original:      func(int32) error { return nil },
			want:          CompensationSucceeded,
			wantTransfers: []string{"pay-1", "comp-1"},
		},
		{
			name: "applied after transient error",
			original: func(attempt int32) error {
				if attempt == 1 {
					return errors.New("connection reset")
				}
				return nil
			},
			want:          CompensationSucceeded,
			wantTransfers: []string{"pay-1", "comp-1"},
		},
		{
			name:     "refused transfer was never applied",
			original: func(int32) error { return domainErrors.ErrTransferRejected },
			want:     CompensationNotApplied,
		},
		{
			name:     "unresolved outcome",
			original: func(int32) error { return errors.New("unavailable") },
			want:     CompensationFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var originalAttempts int32
			tokens := &testhelpers.TokenTransfererStub{
				TransferFn: func(_ context.Context, transfer model.Transfer) error {
					if transfer.ID == unconfirmedTransfer().ID {
						return tc.original(atomic.AddInt32(&originalAttempts, 1))
					}
					return nil
				},
			}
			recorder := &recorderStub{}
			proc := NewCompensationProcessor(tokens, time.Millisecond, 3, 1, recorder, testLogger())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			proc.Start(ctx)
			proc.Reconcile(unconfirmedTransfer(), reverseTransfer())

			results := waitForResults(t, recorder, 1)
			proc.Stop()

			if len(results) != 1 || results[0] != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, results)
			}
			var ids []string
			for _, transfer := range tokens.Transfers() {
				ids = append(ids, transfer.ID)
			}
			if len(ids) != len(tc.wantTransfers) {
				t.Fatalf("expected transfers %v, got %v", tc.wantTransfers, ids)
			}
			for i := range ids {
				if ids[i] != tc.wantTransfers[i] {
					t.Fatalf("expected transfers %v, got %v", tc.wantTransfers, ids)
				}
			}
		})
	}
}

func TestCompensationProcessorStopReportsQueuedReconciliation(t *testing.T) {
	recorder := &recorderStub{}
	tokens := &testhelpers.TokenTransfererStub{}
	proc := NewCompensationProcessor(tokens, time.Millisecond, 1, 1, recorder, testLogger())

	proc.Reconcile(unconfirmedTransfer(), reverseTransfer())
	proc.Stop()

	if results := recorder.snapshot(); len(results) != 1 || results[0] != CompensationDropped {
		t.Fatalf("expected queued reconciliation to be reported as dropped, got %v", results)
	}
	if len(tokens.Transfers()) != 0 {
		t.Fatalf("expected no transfers, got %+v", tokens.Transfers())
	}
}
