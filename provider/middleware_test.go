package provider_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/gokit-soniox/logger"
	"github.com/kbukum/gokit-soniox/observability"
	"github.com/kbukum/gokit-soniox/provider"
	"go.opentelemetry.io/otel/metric/noop"
)

func echoProvider(name string) *provider.Func[string, string] {
	return &provider.Func[string, string]{
		ProviderName: name,
		Fn: func(_ context.Context, in string) (string, error) {
			return "echo:" + in, nil
		},
	}
}

func failingProvider() *provider.Func[string, string] {
	return &provider.Func[string, string]{
		ProviderName: "fail",
		Fn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("intentional failure")
		},
	}
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(echoProvider("test"))
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &provider.Func[string, string]{
				ProviderName: inner.Name(),
				Fn: func(ctx context.Context, in string) (string, error) {
					order = append(order, tag+":before")
					out, err := inner.Execute(ctx, in)
					order = append(order, tag+":after")
					return out, err
				},
			}
		}
	}

	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(echoProvider("test"))
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := "A:before B:before C:before C:after B:after A:after"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	ok := provider.WithLogging[string, string](log)(echoProvider("log-test"))
	if _, err := ok.Execute(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "provider execute ok") {
		t.Errorf("expected debug entry, got %s", buf.String())
	}

	buf.Reset()
	ctx := logger.ContextWithRunID(context.Background(), "run-1")
	failed := provider.WithLogging[string, string](log)(failingProvider())
	if _, err := failed.Execute(ctx, "hello"); err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "intentional failure") || !strings.Contains(out, `"run_id":"run-1"`) {
		t.Errorf("expected error entry with run id, got %s", out)
	}
}

func TestWithTracing(t *testing.T) {
	wrapped := provider.WithTracing[string, string]("soniox")(echoProvider("trace-test"))
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}

	failed := provider.WithTracing[string, string]("soniox")(failingProvider())
	if _, err := failed.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	wrapped := provider.WithMetrics[string, string](metrics)(echoProvider("metrics-test"))
	if _, err := wrapped.Execute(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed := provider.WithMetrics[string, string](metrics)(failingProvider())
	if _, err := failed.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMiddleware_DelegatesIsAvailable(t *testing.T) {
	metrics, _ := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.Nop()),
		provider.WithMetrics[string, string](metrics),
		provider.WithTracing[string, string]("svc"),
	)(echoProvider("avail-test"))

	if !wrapped.IsAvailable(context.Background()) {
		t.Fatal("expected IsAvailable to delegate to inner provider")
	}
	if wrapped.Name() != "avail-test" {
		t.Fatalf("expected name to delegate, got %q", wrapped.Name())
	}

	unavailable := provider.WithLogging[string, string](logger.Nop())(&provider.Func[string, string]{ProviderName: "none"})
	if unavailable.IsAvailable(context.Background()) {
		t.Fatal("expected provider without handler to be unavailable")
	}
}
