package tool

import (
	"context"
	"errors"
	"time"

	"github.com/flemzord/popmcp/internal/executor"
	"github.com/flemzord/popmcp/internal/history"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
)

// MetricsRecorder receives one observation per dispatched call.
type MetricsRecorder interface {
	RecordCall(tool string, kind outcome.Kind, duration time.Duration)
}

// Dispatcher is the single seam between the transport and the execution
// pipeline. Every call flows through the same stages; no stage is skipped
// for any tool, and nothing partial ever escapes to the transport.
type Dispatcher struct {
	reg     *Registry
	deps    Deps
	metrics MetricsRecorder
}

// NewDispatcher wires a dispatcher. metrics may be nil.
func NewDispatcher(reg *Registry, deps Deps, metrics MetricsRecorder) *Dispatcher {
	return &Dispatcher{reg: reg, deps: deps, metrics: metrics}
}

// Dispatch runs one tool call to a finished outcome. It never returns an
// error and never panics the server: every failure mode maps to a failure
// outcome so a broken call cannot take down the dispatcher or affect
// concurrent calls.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) outcome.Outcome {
	start := time.Now()
	out := d.run(ctx, name, args)
	elapsed := time.Since(start)

	d.deps.Logger.Info("tool call finished",
		"tool", name,
		"kind", string(out.Kind),
		"duration", elapsed,
	)

	if d.metrics != nil {
		d.metrics.RecordCall(name, out.Kind, elapsed)
	}
	if d.deps.History != nil {
		if err := d.deps.History.RecordInvocation(ctx, history.Invocation{
			Tool:     name,
			Kind:     string(out.Kind),
			Duration: elapsed,
			Summary:  out.Text,
		}); err != nil {
			d.deps.Logger.Warn("failed to record invocation", "tool", name, "error", err)
		}
	}

	return out
}

// run executes the pipeline stages for one call.
func (d *Dispatcher) run(ctx context.Context, name string, args map[string]any) outcome.Outcome {
	desc, err := d.reg.Get(name)
	if err != nil {
		return outcome.Failuref(outcome.KindUnknownTool, "unknown tool %q", name)
	}

	params, err := desc.Schema.Validate(args)
	if err != nil {
		return outcome.Failure(outcome.KindInvalidInput, err.Error())
	}
	if desc.CheckParams != nil {
		if err := desc.CheckParams(params); err != nil {
			return outcome.Failure(outcome.KindInvalidInput, err.Error())
		}
	}

	var out outcome.Outcome
	if desc.Handler != nil {
		out = desc.Handler(ctx, params, d.deps)
	} else {
		out = d.execute(ctx, desc, params)
	}

	if desc.Finalize != nil {
		out = desc.Finalize(ctx, params, out, d.deps)
	}
	return out
}

// execute runs the standard build → execute → classify → extract pipeline.
func (d *Dispatcher) execute(ctx context.Context, desc Descriptor, params schema.Params) outcome.Outcome {
	spec, err := desc.Build(params, d.deps)
	if err != nil {
		return outcome.Failure(outcome.KindInvalidInput, err.Error())
	}

	rec, err := d.deps.Exec.Run(ctx, spec)
	if err != nil {
		if errors.Is(err, executor.ErrStartFailed) {
			return outcome.Failure(outcome.KindStartFailed, err.Error())
		}
		return outcome.Failure(outcome.KindExecutionFailed, err.Error())
	}

	out := outcome.Classify(rec, desc.FailureMarkers)
	if out.IsError() || desc.Extract == nil {
		return out
	}

	fields, err := desc.Extract(out.Text)
	if err != nil {
		return outcome.Failuref(outcome.KindUnparseable,
			"command succeeded but its output could not be parsed: %v\n\n%s", err, out.Text)
	}
	out.Structured = fields
	return out
}
