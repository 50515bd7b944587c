package model

import "strings"

type ErrorType string

const (
	ErrorTypeSyntax    ErrorType = "syntax"
	ErrorTypeRuntime   ErrorType = "runtime"
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeType      ErrorType = "type"
	ErrorTypeMemory    ErrorType = "memory"
	ErrorTypeRateLimit ErrorType = "rate_limit"
)

// ExecutionResult is the outcome of one test case in one run. It is never
// persisted on its own.
type ExecutionResult struct {
	Input           string    `json:"input"`
	ExpectedOutput  string    `json:"expectedOutput"`
	ActualOutput    string    `json:"actualOutput"`
	Passed          bool      `json:"passed"`
	Stderr          string    `json:"stderr"`
	IsSample        bool      `json:"isSample"`
	ExecutionTimeMs int64     `json:"executionTime"`
	ErrorType       ErrorType `json:"errorType,omitempty"`
}

type ExecutionReport struct {
	Results     []ExecutionResult `json:"results"`
	AllPassed   bool              `json:"allPassed"`
	RateLimited bool              `json:"rateLimited,omitempty"`
}

// ClassifyError derives an error category from stderr text.
// Empty stderr has no category.
func ClassifyError(stderr string) ErrorType {
	switch {
	case stderr == "":
		return ""
	case strings.Contains(stderr, "SyntaxError") || strings.Contains(stderr, "compile error"):
		return ErrorTypeSyntax
	case strings.Contains(stderr, "Timeout") || strings.Contains(stderr, "timeout"):
		return ErrorTypeTimeout
	case strings.Contains(stderr, "MemoryError") || strings.Contains(stderr, "memory"):
		return ErrorTypeMemory
	case strings.Contains(stderr, "TypeError") || strings.Contains(stderr, "type"):
		return ErrorTypeType
	}
	return ErrorTypeRuntime
}
