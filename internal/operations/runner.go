package operations

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cafefcli/internal/infrastructure"
	"cafefcli/internal/metrics"
)

// TracerName is the instrumentation scope of run and step spans
const TracerName = "cafefcli.operation"

// Runner executes registered steps one after another. The first failing
// step ends the run.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Recorder
	tracer   trace.Tracer
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithRunnerMetrics sets the metrics recorder
func WithRunnerMetrics(m *metrics.Recorder) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithRunnerTracer replaces the global tracer
func WithRunnerTracer(t trace.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// NewRunner creates a runner over registry
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		logger:   slog.Default(),
		tracer:   otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = infrastructure.WithComponent(r.logger, "runner")
	return r
}

// Run executes every step against state. On failure the returned error is
// an *OperationError naming the step.
func (r *Runner) Run(ctx context.Context, state *OperationState) error {
	steps := r.registry.List()
	if len(steps) == 0 {
		return ErrNoSteps
	}

	ctx, span := r.tracer.Start(ctx, "operation.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("operation.id", state.ID)))
	defer span.End()

	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	r.logOperationStart(ctx, state.ID, r.registry.ListIDs())

	for _, step := range steps {
		if err := r.runStep(ctx, state, step); err != nil {
			opErr := WrapError(err, step.ID())
			if opErr.Type == ErrorTypeCancellation {
				state.Cancel(opErr)
			} else {
				state.Fail(opErr)
			}
			r.skipRemaining(state)

			span.RecordError(opErr)
			span.SetStatus(codes.Error, opErr.Error())
			r.logOperationError(ctx, state.ID, opErr)
			r.logOperationComplete(ctx, state.ID, state.Duration(), state.CurrentStatus())
			return opErr
		}
	}

	state.Complete()
	span.SetStatus(codes.Ok, "run completed")
	r.logOperationComplete(ctx, state.ID, state.Duration(), state.CurrentStatus())
	return nil
}

func (r *Runner) runStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())

	if err := ctx.Err(); err != nil {
		stepState.Fail(err)
		return NewCancellationError(step.ID(), err)
	}

	ctx, span := r.tracer.Start(ctx, "operation.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		))
	defer span.End()

	stepState.Start()
	r.logStepStart(ctx, state.ID, step.ID())

	err := step.Validate(state)
	if err == nil {
		err = step.Execute(ctx, state)
	}

	if err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(ctx, err)
		r.metrics.RecordStep(ctx, step.ID(), string(StepStatusFailed), stepState.Duration())
		r.logStepError(ctx, state.ID, step.ID(), err)
		return err
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "")
	r.metrics.RecordStep(ctx, step.ID(), string(StepStatusCompleted), stepState.Duration())
	r.logStepComplete(ctx, state.ID, step.ID(), stepState.Duration())
	return nil
}

func (r *Runner) skipRemaining(state *OperationState) {
	for _, id := range r.registry.ListIDs() {
		if s := state.GetStep(id); s != nil && s.CurrentStatus() == StepStatusPending {
			s.Skip("an earlier step failed")
		}
	}
}

