package model

import (
	"time"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

func (d ProblemDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

const (
	DefaultTimeLimitMs   = 3000
	MinTimeLimitMs       = 100
	MaxTimeLimitMs       = 10000
	DefaultMemoryLimitMb = -1 // unlimited
	MaxMemoryLimitMb     = 1024
)

type Problem struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Slug               string            `json:"slug"`
	Description        string            `json:"description"`
	Difficulty         ProblemDifficulty `json:"difficulty"`
	Tags               []string          `json:"tags"`
	InputVariables     []InputVariable   `json:"inputVariables"`
	OutputType         coerce.Type       `json:"outputType"`
	TestCases          []TestCase        `json:"testCases,omitempty"`
	SupportedLanguages []Language        `json:"supportedLanguages"`
	Boilerplates       []Boilerplate     `json:"boilerplates"`
	TimeLimitMs        int               `json:"timeLimit"`
	MemoryLimitMb      int               `json:"memoryLimit"`
	CreatedByID        *string           `json:"createdBy,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// InputVariable is one positional argument of the solution function and one
// line of standard input.
type InputVariable struct {
	Name    string          `json:"name"`
	Type    coerce.BaseType `json:"type"`
	IsArray bool            `json:"isArray"`
}

func (v InputVariable) ValueType() coerce.Type {
	if v.IsArray {
		return coerce.ArrayOf(v.Type)
	}
	return coerce.Scalar(v.Type)
}

// TestCase values are raw text. They are only parsed when compared.
type TestCase struct {
	Inputs         map[string]string `json:"inputs"`
	ExpectedOutput string            `json:"expectedOutput"`
	IsSample       bool              `json:"isSample"`
}

type Boilerplate struct {
	Language Language `json:"language"`
	Version  string   `json:"version"`
	Code     string   `json:"code"`
}

// Stdin joins the raw inputs of tc in variable order, one per line.
// Missing inputs become empty lines.
func (p *Problem) Stdin(tc TestCase) string {
	var b []byte
	for i, v := range p.InputVariables {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, tc.Inputs[v.Name]...)
	}
	return string(b)
}

func (p *Problem) Supports(lang Language) bool {
	for _, l := range p.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

func (p *Problem) Boilerplate(lang Language) (Boilerplate, bool) {
	for _, bp := range p.Boilerplates {
		if bp.Language == lang {
			return bp, true
		}
	}
	return Boilerplate{}, false
}

// SamplesOnly returns a copy of p without hidden test cases.
func (p Problem) SamplesOnly() Problem {
	samples := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		if tc.IsSample {
			samples = append(samples, tc)
		}
	}
	p.TestCases = samples
	return p
}
