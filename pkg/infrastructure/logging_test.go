package infrastructure_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/halwen/patchbay/pkg/infrastructure"
)

func TestNewFxLoggerAdapter(t *testing.T) {
	logger := zaptest.NewLogger(t)

	adapter := infrastructure.NewFxLoggerAdapter(logger)

	var _ fxevent.Logger = adapter
	if adapter == nil {
		t.Fatal("NewFxLoggerAdapter returned nil")
	}
}

func TestLogEventLevels(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		name    string
		event   fxevent.Event
		level   zapcore.Level
		message string
	}{
		{
			name:    "hook executing is debug",
			event:   &fxevent.OnStartExecuting{FunctionName: "engine.Start", CallerName: "app.New"},
			level:   zapcore.DebugLevel,
			message: "OnStart hook executing",
		},
		{
			name:    "hook success is debug",
			event:   &fxevent.OnStartExecuted{FunctionName: "engine.Start", CallerName: "app.New", Runtime: time.Millisecond},
			level:   zapcore.DebugLevel,
			message: "OnStart hook executed",
		},
		{
			name:    "hook failure is error",
			event:   &fxevent.OnStartExecuted{FunctionName: "engine.Start", CallerName: "app.New", Err: boom},
			level:   zapcore.ErrorLevel,
			message: "OnStart hook failed",
		},
		{
			name:    "invoke failure is error",
			event:   &fxevent.Invoked{FunctionName: "registerLifecycleHooks", Err: boom},
			level:   zapcore.ErrorLevel,
			message: "invoke failed",
		},
		{
			name:    "stop signal is info",
			event:   &fxevent.Stopping{Signal: os.Interrupt},
			level:   zapcore.InfoLevel,
			message: "stopping",
		},
		{
			name:    "started is info",
			event:   &fxevent.Started{},
			level:   zapcore.InfoLevel,
			message: "started",
		},
		{
			name:    "start failure is error",
			event:   &fxevent.Started{Err: boom},
			level:   zapcore.ErrorLevel,
			message: "start failed",
		},
		{
			name:    "rollback is error",
			event:   &fxevent.RollingBack{StartErr: boom},
			level:   zapcore.ErrorLevel,
			message: "start failed, rolling back",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			adapter := infrastructure.NewFxLoggerAdapter(zap.New(core))

			adapter.LogEvent(tc.event)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("got %d log entries, want 1", len(entries))
			}
			if entries[0].Level != tc.level {
				t.Errorf("got level %v, want %v", entries[0].Level, tc.level)
			}
			if entries[0].Message != tc.message {
				t.Errorf("got message %q, want %q", entries[0].Message, tc.message)
			}
		})
	}
}

func TestLogEventHandlesAllEventTypes(t *testing.T) {
	logger := zaptest.NewLogger(t)
	adapter := infrastructure.NewFxLoggerAdapter(logger)

	boom := errors.New("boom")
	events := []fxevent.Event{
		&fxevent.OnStartExecuting{FunctionName: "f", CallerName: "c"},
		&fxevent.OnStartExecuted{FunctionName: "f", CallerName: "c", Runtime: time.Millisecond},
		&fxevent.OnStopExecuting{FunctionName: "f", CallerName: "c"},
		&fxevent.OnStopExecuted{FunctionName: "f", CallerName: "c", Err: boom},
		&fxevent.Supplied{TypeName: "*config.Config"},
		&fxevent.Supplied{TypeName: "*config.Config", Err: boom},
		&fxevent.Provided{ConstructorName: "NewEngine", OutputTypeNames: []string{"*engine.Engine"}},
		&fxevent.Provided{ConstructorName: "NewEngine", Err: boom},
		&fxevent.Invoking{FunctionName: "f"},
		&fxevent.Invoked{FunctionName: "f"},
		&fxevent.Stopping{Signal: os.Interrupt},
		&fxevent.Stopped{},
		&fxevent.Stopped{Err: boom},
		&fxevent.RollingBack{StartErr: boom},
		&fxevent.RolledBack{},
		&fxevent.RolledBack{Err: boom},
		&fxevent.Started{},
		&fxevent.LoggerInitialized{ConstructorName: "NewZapLogger"},
		&fxevent.LoggerInitialized{Err: boom},
	}

	// None of these may panic.
	for _, event := range events {
		adapter.LogEvent(event)
	}
}

func TestFxIntegration(t *testing.T) {
	logger := zaptest.NewLogger(t)

	app := fx.New(
		fx.WithLogger(infrastructure.NewFxLoggerAdapter),
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Invoke(func(*zap.Logger) {}),
	)

	if app == nil {
		t.Fatal("failed to create Fx app with logger adapter")
	}
	if err := app.Err(); err != nil {
		t.Fatalf("app construction failed: %v", err)
	}
}
