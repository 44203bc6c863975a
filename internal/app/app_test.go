package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/config"
	"github.com/polkiloo/merchpay/internal/domain/model"
	testhelpers "github.com/polkiloo/merchpay/internal/test"
	"github.com/polkiloo/merchpay/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestCompensationProcessor(tokens worker.Transferer) *worker.CompensationProcessor {
	return worker.NewCompensationProcessor(tokens, 10*time.Millisecond, 1, 1, nil, discardLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewCompensationProcessorUsesConfig(t *testing.T) {
	proc := newCompensationProcessor(workerParams{
		Tokens: &testhelpers.TokenTransfererStub{},
		Config: &config.Config{CompensationRetry: time.Second, CompensationMaxTry: 3, CompensationWorkers: 4},
		Logger: discardLogger(),
	})
	if proc == nil {
		t.Fatal("expected compensation processor instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	tokens := &testhelpers.TokenTransfererStub{}
	proc := newTestCompensationProcessor(tokens)
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Worker:     proc,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	cancel()

	proc.Enqueue(model.Transfer{ID: "comp-1", Token: "USDC", From: "GMERCHANT01", To: "GCUSTOMER01", Amount: 1})
	deadline := time.After(time.Second)
	for len(tokens.Transfers()) == 0 {
		select {
		case <-deadline:
			t.Fatal("expected worker to keep running after the start context is cancelled")
		case <-time.After(5 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Worker:     newTestCompensationProcessor(&testhelpers.TokenTransfererStub{}),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	recorder.Append(fx.Hook{})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
