package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/Vivek290100/CodeMaster/internal/platform/executor"
	"github.com/Vivek290100/CodeMaster/internal/platform/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultInterCallDelay   = 250 * time.Millisecond
	DefaultCompileTimeoutMs = 10000
)

type ExecutionOptions struct {
	// InterCallDelay is the pause between two remote calls of one submission.
	InterCallDelay   time.Duration
	CompileTimeoutMs int
}

// ExecutionService runs a submission against every test case of a problem,
// one remote call at a time.
type ExecutionService struct {
	problemRepo repository.ProblemRepository
	exec        executor.Executor
	metrics     *metrics.Metrics
	log         *zap.Logger
	opts        ExecutionOptions

	sleep func(ctx context.Context, d time.Duration) error
}

func NewExecutionService(
	problemRepo repository.ProblemRepository,
	exec executor.Executor,
	m *metrics.Metrics,
	log *zap.Logger,
	opts ExecutionOptions,
) *ExecutionService {
	if opts.InterCallDelay < 0 {
		opts.InterCallDelay = DefaultInterCallDelay
	}
	if opts.CompileTimeoutMs <= 0 {
		opts.CompileTimeoutMs = DefaultCompileTimeoutMs
	}
	return &ExecutionService{
		problemRepo: problemRepo,
		exec:        exec,
		metrics:     m,
		log:         log,
		opts:        opts,
		sleep:       sleepContext,
	}
}

func ValidateExecuteRequest(req model.ExecuteRequest) error {
	if req.ProblemID == "" || req.Language == "" || req.Version == "" || req.Code == "" {
		return common.Validationf("problemId, language, version and code are required")
	}
	if _, err := uuid.Parse(req.ProblemID); err != nil {
		return common.Validationf("problemId %q is not a valid id", req.ProblemID)
	}
	if !req.Language.Valid() {
		return common.Validationf("language %q is not supported", req.Language)
	}
	return nil
}

// Execute runs req.Code against every test case in order. Per-test failures
// are reported in the results. Only invalid requests, unknown problems and
// cancellation are returned as errors.
func (s *ExecutionService) Execute(ctx context.Context, req model.ExecuteRequest) (*model.ExecutionReport, error) {
	if err := ValidateExecuteRequest(req); err != nil {
		return nil, err
	}

	problem, err := s.problemRepo.FindByID(ctx, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %s: %w", req.ProblemID, err)
	}
	if !problem.Supports(req.Language) {
		return nil, common.Validationf("language %q is not supported by this problem", req.Language)
	}

	log := s.log.With(
		zap.String("problem_id", problem.ID),
		zap.String("language", string(req.Language)),
		zap.String("version", req.Version),
	)
	log.Info("executing submission", zap.Int("test_cases", len(problem.TestCases)))

	report := &model.ExecutionReport{
		Results:   make([]model.ExecutionResult, 0, len(problem.TestCases)),
		AllPassed: true,
	}
	for i, tc := range problem.TestCases {
		if i > 0 {
			if err := s.sleep(ctx, s.opts.InterCallDelay); err != nil {
				return nil, fmt.Errorf("execution interrupted after %d of %d test cases: %w", i, len(problem.TestCases), err)
			}
		}

		result := s.runTestCase(ctx, problem, req, tc)
		if result.ErrorType == model.ErrorTypeRateLimit {
			report.RateLimited = true
		}
		report.AllPassed = report.AllPassed && result.Passed
		report.Results = append(report.Results, result)
		s.metrics.ObserveResult(string(req.Language), result.Passed)
	}

	log.Info("submission executed",
		zap.Bool("all_passed", report.AllPassed),
		zap.Bool("rate_limited", report.RateLimited),
	)
	return report, nil
}

func (s *ExecutionService) runTestCase(ctx context.Context, p *model.Problem, req model.ExecuteRequest, tc model.TestCase) model.ExecutionResult {
	result := model.ExecutionResult{
		Input:          encodeInputs(tc.Inputs),
		ExpectedOutput: tc.ExpectedOutput,
		IsSample:       tc.IsSample,
	}

	start := time.Now()
	res, err := s.exec.Execute(ctx, executor.Request{
		Language:         string(req.Language),
		Version:          req.Version,
		Code:             req.Code,
		Stdin:            p.Stdin(tc),
		RunTimeoutMs:     p.TimeLimitMs,
		CompileTimeoutMs: s.opts.CompileTimeoutMs,
		MemoryLimitMb:    p.MemoryLimitMb,
	})
	elapsed := time.Since(start)
	result.ExecutionTimeMs = elapsed.Milliseconds()

	switch {
	case errors.Is(err, common.ErrRateLimited):
		s.metrics.ObserveCall(string(req.Language), "rate_limited", elapsed)
		s.log.Warn("executor rate limit hit", zap.Error(err))
		result.Stderr = err.Error()
		result.ErrorType = model.ErrorTypeRateLimit
		return result
	case err != nil:
		s.metrics.ObserveCall(string(req.Language), "error", elapsed)
		s.log.Error("executor call failed", zap.Error(err))
		result.Stderr = err.Error()
		result.ErrorType = model.ClassifyError(result.Stderr)
		return result
	case res.CompileFailed():
		s.metrics.ObserveCall(string(req.Language), "compile_error", elapsed)
		result.Stderr = res.CompileError()
		result.ErrorType = model.ErrorTypeSyntax
		return result
	}
	s.metrics.ObserveCall(string(req.Language), "ok", elapsed)

	result.ActualOutput = strings.TrimSpace(res.Run.Stdout)
	result.Stderr = runStderr(res.Run)
	if result.Stderr != "" {
		result.ErrorType = model.ClassifyError(result.Stderr)
		return result
	}

	passed, err := coerce.Match(tc.ExpectedOutput, result.ActualOutput, p.OutputType)
	if err != nil {
		result.ErrorType = model.ErrorTypeType
		return result
	}
	result.Passed = passed
	return result
}

// runStderr is the run step's stderr, or a description of an abnormal exit
// when the program wrote nothing there.
func runStderr(run executor.Stage) string {
	if stderr := strings.TrimSpace(run.Stderr); stderr != "" {
		return stderr
	}
	if run.Killed() {
		return fmt.Sprintf("Timeout: process killed by %s", *run.Signal)
	}
	if code := run.ExitCode(); code != 0 {
		return fmt.Sprintf("Exit code %d", code)
	}
	return ""
}

func encodeInputs(inputs map[string]string) string {
	if inputs == nil {
		inputs = map[string]string{}
	}
	data, err := json.Marshal(inputs)
	if err != nil {
		return ""
	}
	return string(data)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
