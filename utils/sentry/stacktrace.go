package sentry

import (
	"errors"
	"reflect"
	"runtime"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sthembisoo/sentry-worker/cmd/sentry/types"
)

const maxFrames = 64

// StackTracer reads the call stack recorded on err.
// It returns false when err carries no trace.
type StackTracer func(err error) ([]runtime.Frame, bool)

var (
	tracerMu sync.RWMutex
	tracer   StackTracer = DefaultStackTracer
)

// SetStackTracer replaces the process-wide stack tracer used by every client.
// Passing nil restores DefaultStackTracer. An extraction already running keeps
// the tracer it started with.
func SetStackTracer(fn StackTracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()

	if fn == nil {
		fn = DefaultStackTracer
	}
	tracer = fn
}

// DefaultStackTracer walks the unwrap chain of err and returns the innermost trace found.
// It understands StackTrace() []runtime.Frame, github.com/pkg/errors stacks
// and Callers() []uintptr.
func DefaultStackTracer(err error) ([]runtime.Frame, bool) {
	var (
		frames []runtime.Frame
		found  bool
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		if f, ok := traceOf(e); ok {
			frames, found = f, true
		}
	}
	return frames, found
}

func traceOf(err error) ([]runtime.Frame, bool) {
	switch e := err.(type) {
	case interface{ StackTrace() []runtime.Frame }:
		return e.StackTrace(), true
	case interface{ StackTrace() pkgerrors.StackTrace }:
		pcs := lo.Map(e.StackTrace(), func(f pkgerrors.Frame, _ int) uintptr {
			return uintptr(f)
		})
		return framesFromPCs(pcs), true
	case interface{ Callers() []uintptr }:
		return framesFromPCs(e.Callers()), true
	}
	return nil, false
}

// Extract returns the stack frames recorded on err, outermost first.
// When err carries no trace the stack of the caller is used instead.
func Extract(err error) ([]types.Frame, error) {
	return extractFrames(err, 1)
}

// extractFrames falls back to the current stack, omitting skip callers above its own caller
func extractFrames(err error, skip int) ([]types.Frame, error) {
	if isNil(err) {
		return nil, ErrNilError
	}

	raw, ok, traceErr := runTracer(err)
	if traceErr != nil {
		return nil, traceErr
	}
	if !ok || len(raw) == 0 {
		raw = framesFromPCs(callers(skip + 1))
	}

	// runtime order is innermost first; Sentry wants the crashing frame last
	return lo.Map(raw, func(_ runtime.Frame, i int) types.Frame {
		return toFrame(raw[len(raw)-1-i])
	}), nil
}

// isNil also catches a nil pointer stored in a non-nil error interface
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func currentTracer() StackTracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	return tracer
}

// runTracer calls the tracer outside the lock so it may itself call Extract or SetStackTracer
func runTracer(err error) (frames []runtime.Frame, ok bool, traceErr error) {
	fn := currentTracer()

	defer func() {
		if r := recover(); r != nil {
			frames, ok, traceErr = nil, false, &ExtractionError{Value: r}
		}
	}()

	frames, ok = fn(err)
	return frames, ok, nil
}

// callers records program counters starting skip frames above its caller
func callers(skip int) []uintptr {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

func framesFromPCs(pcs []uintptr) []runtime.Frame {
	if len(pcs) == 0 {
		return nil
	}

	frames := make([]runtime.Frame, 0, len(pcs))
	it := runtime.CallersFrames(pcs)
	for {
		frame, more := it.Next()
		frames = append(frames, frame)
		if !more {
			break
		}
	}
	return frames
}

func toFrame(f runtime.Frame) types.Frame {
	frame := types.Frame{
		Function: f.Function,
		Filename: f.File,
		Lineno:   f.Line,
		InApp:    isInApp(f),
	}
	if recv := receiver(f.Function); recv != "" {
		frame.Vars = &types.FrameVars{This: recv}
	}
	return frame
}

// isInApp reports false for frames without provenance, the Go runtime,
// the standard library and third-party modules.
func isInApp(f runtime.Frame) bool {
	if f.Function == "" || f.File == "" {
		return false
	}
	if strings.Contains(f.File, "/pkg/mod/") || strings.Contains(f.File, "/vendor/") {
		return false
	}

	pkg := packagePath(f.Function)
	if pkg == "main" {
		return true
	}

	// standard library import paths have no dot in their first element
	root, _, _ := strings.Cut(pkg, "/")
	return strings.Contains(root, ".")
}

// packagePath trims the symbol from a fully qualified function name:
// github.com/a/b.(*T).M -> github.com/a/b
func packagePath(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}

// receiver returns the receiver type of a pointer method, e.g. *Client
func receiver(function string) string {
	rest := strings.TrimPrefix(function[len(packagePath(function)):], ".")
	if !strings.HasPrefix(rest, "(") {
		return ""
	}

	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	return rest[1:end]
}
