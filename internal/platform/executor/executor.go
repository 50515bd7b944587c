// Package executor talks to the remote code runner. Code is never run
// locally.
package executor

import (
	"context"
	"fmt"
)

type Request struct {
	Language         string
	Version          string
	Code             string
	Stdin            string
	RunTimeoutMs     int
	CompileTimeoutMs int
	// MemoryLimitMb <= 0 means no limit.
	MemoryLimitMb int
}

// Stage is the outcome of one compile or run step.
type Stage struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}

func (s Stage) ExitCode() int {
	if s.Code == nil {
		return 0
	}
	return *s.Code
}

// Killed reports whether the process was stopped by a signal, which is how
// the runner enforces its time limit.
func (s Stage) Killed() bool {
	return s.Signal != nil && *s.Signal != ""
}

type Result struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Run      Stage  `json:"run"`
	Compile  *Stage `json:"compile,omitempty"`
}

func (r *Result) CompileFailed() bool {
	return r.Compile != nil && (r.Compile.ExitCode() != 0 || r.Compile.Killed())
}

// CompileError is the diagnostic text of a failed compile step.
func (r *Result) CompileError() string {
	if r.Compile == nil {
		return ""
	}
	if r.Compile.Stderr != "" {
		return r.Compile.Stderr
	}
	if r.Compile.Output != "" {
		return r.Compile.Output
	}
	return fmt.Sprintf("compile error: exit code %d", r.Compile.ExitCode())
}

type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime,omitempty"`
}

type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
	Runtimes(ctx context.Context) ([]Runtime, error)
}
