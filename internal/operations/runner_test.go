package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"cafefcli/internal/shared/testutil"
)

type fakeStep struct {
	BaseStep
	err         error
	validateErr error
	calls       *[]string
	cancel      context.CancelFunc
}

func newFakeStep(id string, calls *[]string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, "Fake "+id), calls: calls}
}

func (s *fakeStep) Validate(state *OperationState) error {
	return s.validateErr
}

func (s *fakeStep) Execute(ctx context.Context, state *OperationState) error {
	*s.calls = append(*s.calls, s.ID())
	if s.cancel != nil {
		s.cancel()
	}
	return s.err
}

func newTestRunner(t *testing.T, steps ...Step) (*Runner, *tracetest.SpanRecorder, *testutil.BufferedSlogHandler) {
	t.Helper()
	registry := NewRegistry()
	for _, s := range steps {
		require.NoError(t, registry.Register(s))
	}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger, handler := testutil.NewTestLogger(t)
	return NewRunner(registry, WithRunnerLogger(logger), WithRunnerTracer(tp.Tracer(TracerName))), recorder, handler
}

func spanNames(rec *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestRunnerRunsStepsInOrder(t *testing.T) {
	var calls []string
	runner, rec, handler := newTestRunner(t,
		newFakeStep("a", &calls),
		newFakeStep("b", &calls),
		newFakeStep("c", &calls),
	)

	state := NewOperationState("run-1")
	require.NoError(t, runner.Run(context.Background(), state))

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, OperationStatusCompleted, state.CurrentStatus())
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, StepStatusCompleted, state.GetStep(id).CurrentStatus())
	}
	assert.False(t, state.HasFailures())

	assert.ElementsMatch(t, []string{
		"operation.step.a", "operation.step.b", "operation.step.c", "operation.run",
	}, spanNames(rec))
	assert.True(t, handler.ContainsMessage("operation_complete"))
	assert.Len(t, handler.GetRecords(), 8)
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	var calls []string
	failing := newFakeStep("b", &calls)
	failing.err = errors.New("boom")

	runner, _, handler := newTestRunner(t,
		newFakeStep("a", &calls),
		failing,
		newFakeStep("c", &calls),
	)

	state := NewOperationState("run-2")
	err := runner.Run(context.Background(), state)
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "b", opErr.Step)
	assert.Equal(t, ErrorTypeExecution, opErr.Type)

	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, OperationStatusFailed, state.CurrentStatus())
	assert.Equal(t, StepStatusFailed, state.GetStep("b").CurrentStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("c").CurrentStatus())
	assert.True(t, state.HasFailures())
	assert.True(t, handler.ContainsAttr("step", "b"))
}

func TestRunnerValidationFailure(t *testing.T) {
	var calls []string
	step := newFakeStep("a", &calls)
	step.validateErr = NewValidationError("a", "missing input")

	runner, _, _ := newTestRunner(t, step)

	err := runner.Run(context.Background(), NewOperationState("run-3"))
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Empty(t, calls)
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string
	first := newFakeStep("a", &calls)
	first.cancel = cancel

	runner, _, _ := newTestRunner(t, first, newFakeStep("b", &calls))

	state := NewOperationState("run-4")
	err := runner.Run(ctx, state)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, OperationStatusCancelled, state.CurrentStatus())
}

func TestRunnerWithoutSteps(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	assert.ErrorIs(t, runner.Run(context.Background(), NewOperationState("run-5")), ErrNoSteps)
}

func TestRegistry(t *testing.T) {
	var calls []string
	r := NewRegistry()

	require.NoError(t, r.Register(newFakeStep("a", &calls)))
	require.NoError(t, r.Register(newFakeStep("b", &calls)))
	assert.Error(t, r.Register(newFakeStep("a", &calls)), "duplicate")
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newFakeStep("", &calls)))

	assert.Equal(t, []string{"a", "b"}, r.ListIDs())
	steps := r.List()
	require.Len(t, steps, 2)
	assert.Equal(t, "Fake b", steps[1].Name())
}
