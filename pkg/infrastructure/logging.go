// Package infrastructure provides reusable infrastructure components for Go applications.
package infrastructure

import (
	"fmt"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter adapts a zap.Logger to the fxevent.Logger interface so the
// Fx framework's internal events flow through the application log.
type FxLoggerAdapter struct {
	logger *zap.Logger
}

// NewFxLoggerAdapter creates a new Fx logger adapter that implements fxevent.Logger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger}
}

// LogEvent implements fxevent.Logger. Routine wiring events log at debug;
// anything that failed logs at error with the cause attached.
func (a *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		a.logger.Debug("OnStart hook executing",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName))
	case *fxevent.OnStartExecuted:
		a.hookExecuted("OnStart hook", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuting:
		a.logger.Debug("OnStop hook executing",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName))
	case *fxevent.OnStopExecuted:
		a.hookExecuted("OnStop hook", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.Supplied:
		if e.Err != nil {
			a.logger.Error("supply failed", zap.String("type", e.TypeName), zap.Error(e.Err))
		} else {
			a.logger.Debug("supplied", zap.String("type", e.TypeName))
		}
	case *fxevent.Provided:
		if e.Err != nil {
			a.logger.Error("provide failed", zap.String("constructor", e.ConstructorName), zap.Error(e.Err))
		} else {
			a.logger.Debug("provided",
				zap.String("constructor", e.ConstructorName),
				zap.Strings("types", e.OutputTypeNames))
		}
	case *fxevent.Invoking:
		a.logger.Debug("invoking", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			a.logger.Error("invoke failed", zap.String("function", e.FunctionName), zap.Error(e.Err))
		} else {
			a.logger.Debug("invoked", zap.String("function", e.FunctionName))
		}
	case *fxevent.Stopping:
		a.logger.Info("stopping", zap.Stringer("signal", e.Signal))
	case *fxevent.Stopped:
		if e.Err != nil {
			a.logger.Error("stop failed", zap.Error(e.Err))
		} else {
			a.logger.Info("stopped")
		}
	case *fxevent.RollingBack:
		a.logger.Error("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			a.logger.Error("rollback failed", zap.Error(e.Err))
		}
	case *fxevent.Started:
		if e.Err != nil {
			a.logger.Error("start failed", zap.Error(e.Err))
		} else {
			a.logger.Info("started")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			a.logger.Error("logger initialization failed", zap.Error(e.Err))
		} else {
			a.logger.Debug("logger initialized", zap.String("constructor", e.ConstructorName))
		}
	default:
		a.logger.Debug("unknown fx event", zap.String("type", fmt.Sprintf("%T", event)))
	}
}

// hookExecuted logs lifecycle hook completion with optional error information.
func (a *FxLoggerAdapter) hookExecuted(action, callee, caller, runtime string, err error) {
	if err != nil {
		a.logger.Error(action+" failed",
			zap.String("callee", callee),
			zap.String("caller", caller),
			zap.Error(err))

		return
	}
	a.logger.Debug(action+" executed",
		zap.String("callee", callee),
		zap.String("caller", caller),
		zap.String("runtime", runtime))
}
