// Package mocks provides shared test doubles for benchcheck packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AndreyAkinshin/benchcheck/internal/runner"
)

// Runner implements runner.Runner for testing.
// Use NewRunner() to create instances with a fluent builder API.
type Runner struct {
	results  map[string]runner.Result
	errs     map[string]error
	fallback runner.Result

	// RunFunc, if set, answers every invocation instead of the canned results.
	RunFunc func(ctx context.Context, inv runner.Invocation) (runner.Result, error)
	// OnRun is called with every invocation before it is answered.
	OnRun func(inv runner.Invocation)

	// Execution tracking (thread-safe)
	runCount int32
	mu       sync.Mutex
	calls    []runner.Invocation
}

// NewRunner creates a mock runner whose invocations succeed with empty
// output unless configured otherwise.
func NewRunner() *Runner {
	return &Runner{
		results: make(map[string]runner.Result),
		errs:    make(map[string]error),
	}
}

// WithFallback sets the result of runs without a canned result.
func (m *Runner) WithFallback(res runner.Result) *Runner {
	m.fallback = res
	return m
}

// WithResult sets the result of run id.
func (m *Runner) WithResult(id string, res runner.Result) *Runner {
	m.mu.Lock()
	m.results[id] = res
	m.mu.Unlock()
	return m
}

// WithStdout makes run id exit successfully after printing stdout.
func (m *Runner) WithStdout(id, stdout string) *Runner {
	return m.WithResult(id, runner.Result{Stdout: stdout})
}

// WithError makes run id fail without an exit status.
func (m *Runner) WithError(id string, err error) *Runner {
	m.mu.Lock()
	m.errs[id] = err
	m.mu.Unlock()
	return m
}

// WithRunFunc sets the function called by Run.
func (m *Runner) WithRunFunc(fn func(ctx context.Context, inv runner.Invocation) (runner.Result, error)) *Runner {
	m.RunFunc = fn
	return m
}

// WithOnRun sets the hook called at the start of every Run.
func (m *Runner) WithOnRun(fn func(inv runner.Invocation)) *Runner {
	m.OnRun = fn
	return m
}

// runner.Runner interface implementation

func (m *Runner) Run(ctx context.Context, inv runner.Invocation) (runner.Result, error) {
	atomic.AddInt32(&m.runCount, 1)
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()

	if m.OnRun != nil {
		m.OnRun(inv)
	}
	if m.RunFunc != nil {
		return m.RunFunc(ctx, inv)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[inv.ID]; ok {
		return runner.Result{}, err
	}
	if res, ok := m.results[inv.ID]; ok {
		return res, nil
	}
	return m.fallback, nil
}

// Test inspection methods

// RunCount returns the number of times Run was called.
func (m *Runner) RunCount() int32 {
	return atomic.LoadInt32(&m.runCount)
}

// Calls returns the invocations passed to Run, in call order.
func (m *Runner) Calls() []runner.Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]runner.Invocation, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallIDs returns the run identifiers passed to Run, in call order.
func (m *Runner) CallIDs() []string {
	calls := m.Calls()
	ids := make([]string, len(calls))
	for i, c := range calls {
		ids[i] = c.ID
	}
	return ids
}

// Reset clears execution tracking state.
func (m *Runner) Reset() {
	atomic.StoreInt32(&m.runCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
