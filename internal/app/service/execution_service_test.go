package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/Vivek290100/CodeMaster/internal/platform/executor"
	"github.com/Vivek290100/CodeMaster/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeExecutor answers each call with the next scripted response.
type fakeExecutor struct {
	mu        sync.Mutex
	requests  []executor.Request
	responses []func(executor.Request) (*executor.Result, error)
	runtimes  []executor.Runtime
}

func (f *fakeExecutor) Execute(_ context.Context, req executor.Request) (*executor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i >= len(f.responses) {
		return stdout("")(req)
	}
	return f.responses[i](req)
}

func (f *fakeExecutor) Runtimes(context.Context) ([]executor.Runtime, error) {
	return f.runtimes, nil
}

func (f *fakeExecutor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func intPtr(i int) *int { return &i }

func stdout(out string) func(executor.Request) (*executor.Result, error) {
	return func(executor.Request) (*executor.Result, error) {
		return &executor.Result{Run: executor.Stage{Stdout: out, Code: intPtr(0)}}, nil
	}
}

func run(stage executor.Stage) func(executor.Request) (*executor.Result, error) {
	return func(executor.Request) (*executor.Result, error) {
		return &executor.Result{Run: stage}, nil
	}
}

func fail(err error) func(executor.Request) (*executor.Result, error) {
	return func(executor.Request) (*executor.Result, error) { return nil, err }
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func sumProblem(cases ...model.TestCase) *model.Problem {
	return &model.Problem{
		ID:    uuid.NewString(),
		Title: "Sum of numbers",
		Slug:  "sum-of-numbers-" + uuid.NewString()[:8],
		InputVariables: []model.InputVariable{
			{Name: "nums", Type: coerce.Integer, IsArray: true},
		},
		OutputType:         coerce.Scalar(coerce.Integer),
		TestCases:          cases,
		SupportedLanguages: []model.Language{model.LanguagePython, model.LanguageJavaScript},
		TimeLimitMs:        model.DefaultTimeLimitMs,
		MemoryLimitMb:      model.DefaultMemoryLimitMb,
	}
}

func newExecutionFixture(t *testing.T, p *model.Problem, fake *fakeExecutor) (*ExecutionService, *sleepRecorder, *metrics.Metrics) {
	t.Helper()
	repo := repository.NewMemoryProblemRepository()
	if p != nil {
		require.NoError(t, repo.Create(context.Background(), p))
	}
	m := metrics.New()
	svc := NewExecutionService(repo, fake, m, zaptest.NewLogger(t), ExecutionOptions{
		InterCallDelay:   DefaultInterCallDelay,
		CompileTimeoutMs: 10000,
	})
	rec := &sleepRecorder{}
	svc.sleep = rec.sleep
	return svc, rec, m
}

func request(p *model.Problem, lang model.Language) model.ExecuteRequest {
	return model.ExecuteRequest{ProblemID: p.ID, Language: lang, Version: "3.10.0", Code: "def solution(nums):\n    return sum(nums)"}
}

func TestExecuteSumExample(t *testing.T) {
	p := sumProblem(model.TestCase{Inputs: map[string]string{"nums": "1, 2, 3"}, ExpectedOutput: "6", IsSample: true})
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){stdout("6\n")}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.True(t, res.Passed)
	assert.True(t, report.AllPassed)
	assert.Equal(t, "6", res.ActualOutput)
	assert.Equal(t, "6", res.ExpectedOutput)
	assert.Equal(t, `{"nums":"1, 2, 3"}`, res.Input)
	assert.True(t, res.IsSample)
	assert.Empty(t, res.ErrorType)

	req := fake.requests[0]
	assert.Equal(t, "1, 2, 3", req.Stdin)
	assert.Equal(t, "python", req.Language)
	assert.Equal(t, "3.10.0", req.Version)
	assert.Equal(t, model.DefaultTimeLimitMs, req.RunTimeoutMs)
	assert.Equal(t, 10000, req.CompileTimeoutMs)
}

func TestExecuteCallsOncePerTestCaseWithDelaysBetween(t *testing.T) {
	var cases []model.TestCase
	for i := 0; i < 4; i++ {
		cases = append(cases, model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"})
	}
	p := sumProblem(cases...)
	fake := &fakeExecutor{}
	for range cases {
		fake.responses = append(fake.responses, stdout("1"))
	}
	svc, rec, m := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)

	assert.Len(t, report.Results, 4)
	assert.Equal(t, 4, fake.calls())
	assert.Equal(t, []time.Duration{DefaultInterCallDelay, DefaultInterCallDelay, DefaultInterCallDelay}, rec.delays)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("python", "ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.TestResults.WithLabelValues("python", "passed")))
}

func TestExecuteSingleTestCaseNeverSleeps(t *testing.T) {
	p := sumProblem(model.TestCase{Inputs: map[string]string{"nums": "2"}, ExpectedOutput: "2"})
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){stdout("2")}}
	svc, rec, _ := newExecutionFixture(t, p, fake)

	_, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	assert.Empty(t, rec.delays)
}

func TestExecuteCompileFailureIsPerTestCase(t *testing.T) {
	p := sumProblem(
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
		model.TestCase{Inputs: map[string]string{"nums": "2"}, ExpectedOutput: "2"},
	)
	compileErr := func(executor.Request) (*executor.Result, error) {
		return &executor.Result{
			Compile: &executor.Stage{Stderr: "main.cpp:2:1: error: expected ';'", Code: intPtr(1)},
		}, nil
	}
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){compileErr, stdout("2")}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguageJavaScript))
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	first := report.Results[0]
	assert.False(t, first.Passed)
	assert.Empty(t, first.ActualOutput)
	assert.Contains(t, first.Stderr, "expected ';'")
	assert.Equal(t, model.ErrorTypeSyntax, first.ErrorType)

	assert.True(t, report.Results[1].Passed)
	assert.False(t, report.AllPassed)
}

func TestExecuteStderrFailsEvenWithMatchingOutput(t *testing.T) {
	p := sumProblem(model.TestCase{Inputs: map[string]string{"nums": "3"}, ExpectedOutput: "3"})
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){
		run(executor.Stage{Stdout: "3\n", Stderr: "DeprecationWarning: something", Code: intPtr(0)}),
	}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	res := report.Results[0]
	assert.Equal(t, "3", res.ActualOutput)
	assert.False(t, res.Passed)
	assert.False(t, report.AllPassed)
	assert.Equal(t, model.ErrorTypeRuntime, res.ErrorType)
}

func TestExecuteAbnormalExitWithoutStderr(t *testing.T) {
	p := sumProblem(
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
	)
	sigkill := "SIGKILL"
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){
		run(executor.Stage{Code: intPtr(3)}),
		run(executor.Stage{Signal: &sigkill}),
	}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	assert.Equal(t, "Exit code 3", report.Results[0].Stderr)
	assert.Equal(t, model.ErrorTypeRuntime, report.Results[0].ErrorType)
	assert.True(t, strings.HasPrefix(report.Results[1].Stderr, "Timeout"))
	assert.Equal(t, model.ErrorTypeTimeout, report.Results[1].ErrorType)
}

func TestExecuteTransportAndRateLimitErrorsBecomeResults(t *testing.T) {
	p := sumProblem(
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
	)
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){
		fail(errors.New("piston: POST /execute: connection refused")),
		fail(fmt.Errorf("piston: %w", common.ErrRateLimited)),
		stdout("1"),
	}}
	svc, _, m := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.False(t, report.Results[0].Passed)
	assert.Contains(t, report.Results[0].Stderr, "connection refused")
	assert.Equal(t, model.ErrorTypeRateLimit, report.Results[1].ErrorType)
	assert.True(t, report.Results[2].Passed)
	assert.True(t, report.RateLimited)
	assert.False(t, report.AllPassed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("python", "rate_limited")))
}

func TestExecuteComparesStructurally(t *testing.T) {
	p := sumProblem(
		model.TestCase{Inputs: map[string]string{"nums": "1.5,4.5"}, ExpectedOutput: "6"},
		model.TestCase{Inputs: map[string]string{"nums": "3.5,3"}, ExpectedOutput: "6.5"},
	)
	p.OutputType = coerce.Scalar(coerce.Float)
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){stdout("6.0"), stdout("6.25")}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	report, err := svc.Execute(context.Background(), request(p, model.LanguagePython))
	require.NoError(t, err)
	assert.True(t, report.Results[0].Passed, "6.0 and 6 are the same float")
	assert.False(t, report.Results[1].Passed)
}

func TestExecuteValidatesBeforeCallingExecutor(t *testing.T) {
	p := sumProblem(model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"})
	fake := &fakeExecutor{}
	svc, _, _ := newExecutionFixture(t, p, fake)

	tests := map[string]model.ExecuteRequest{
		"missing code":     {ProblemID: p.ID, Language: model.LanguagePython, Version: "3.10.0"},
		"missing version":  {ProblemID: p.ID, Language: model.LanguagePython, Code: "x"},
		"bad problem id":   {ProblemID: "sum", Language: model.LanguagePython, Version: "3.10.0", Code: "x"},
		"unknown language": {ProblemID: p.ID, Language: "ruby", Version: "3.2", Code: "x"},
		"not supported":    {ProblemID: p.ID, Language: model.LanguageCpp, Version: "10.2.0", Code: "x"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, 400, common.HTTPStatusFromError(err))
		})
	}
	assert.Zero(t, fake.calls())
}

func TestExecuteUnknownProblem(t *testing.T) {
	fake := &fakeExecutor{}
	svc, _, _ := newExecutionFixture(t, nil, fake)

	_, err := svc.Execute(context.Background(), model.ExecuteRequest{
		ProblemID: uuid.NewString(), Language: model.LanguagePython, Version: "3.10.0", Code: "x",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Zero(t, fake.calls())
}

func TestExecuteStopsWhenContextCancelled(t *testing.T) {
	p := sumProblem(
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
		model.TestCase{Inputs: map[string]string{"nums": "1"}, ExpectedOutput: "1"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeExecutor{responses: []func(executor.Request) (*executor.Result, error){
		func(executor.Request) (*executor.Result, error) {
			cancel()
			return &executor.Result{Run: executor.Stage{Stdout: "1"}}, nil
		},
	}}
	svc, _, _ := newExecutionFixture(t, p, fake)

	_, err := svc.Execute(ctx, request(p, model.LanguagePython))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.calls())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
