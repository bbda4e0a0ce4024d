package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/kbukum/gokit-soniox/config"
	"github.com/kbukum/gokit-soniox/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Environment: "development",
		},
	}
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-svc")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version == "" {
		t.Error("expected a version")
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	// Config is typed
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
	// Defaults were applied
	if app.Cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level in development, got %q", app.Cfg.Logging.Level)
	}
}

func TestNewApp_ValidationError(t *testing.T) {
	cfg := newTestConfig("")
	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestNewApp_Options(t *testing.T) {
	log := logger.Nop()
	app, err := NewApp(newTestConfig("svc"),
		WithLogger(log),
		WithGracefulTimeout(2*time.Second),
		WithSignals(syscall.SIGUSR1),
	)
	if err != nil {
		t.Fatal(err)
	}
	if app.Logger != log {
		t.Error("expected custom logger")
	}
	if app.gracefulTimeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", app.gracefulTimeout)
	}
	if len(app.signals) != 1 || app.signals[0] != syscall.SIGUSR1 {
		t.Errorf("unexpected signals %v", app.signals)
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	app, err := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if fmt.Sprint(order) != "[start task stop]" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRunTask_TaskErrorStillStops(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	taskErr := errors.New("boom")
	stopped := false
	app.OnStop(func(ctx context.Context) error {
		stopped = true
		return errors.New("stop failed")
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("expected task error to win, got %v", err)
	}
	if !stopped {
		t.Error("expected OnStop hooks to run")
	}
}

func TestRunTask_StopError(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	stopErr := errors.New("flush failed")
	app.OnStop(func(ctx context.Context) error { return stopErr })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, stopErr) {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestRunTask_StartHookError(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	app.OnStart(func(ctx context.Context) error { return errors.New("no exporter") })
	ran := false

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if ran {
		t.Error("task must not run when a start hook fails")
	}
}

func TestRunTask_SignalCancelsTask(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()), WithSignals(syscall.SIGUSR1))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("task was not canceled")
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTask_ParentContextCanceled(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestShutdown(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc"), WithLogger(logger.Nop()))
	called := false
	app.OnStop(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("stop hooks should run with a deadline")
		}
		called = true
		return nil
	})
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("expected OnStop hook")
	}
}
