// Package boilerplate generates starter programs for a problem: a solution
// stub plus a harness that reads one line of standard input per input
// variable, calls the stub and prints the result.
//
// The harness is the contract every submission keeps. Test cases are fed to
// programs only through standard input and read back only from standard
// output.
package boilerplate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	mapset "github.com/deckarep/golang-set/v2"
)

// FunctionName is the name of the generated solution function in every language.
const FunctionName = "solution"

// Dialect renders the pieces of a starter program for one language.
type Dialect interface {
	Language() model.Language
	// Params renders the parameter list of the solution function.
	Params(vars []model.InputVariable) string
	// DefaultReturn renders the zero value of out.
	DefaultReturn(out coerce.Type) string
	// Stub renders the solution function.
	Stub(vars []model.InputVariable, out coerce.Type) string
	// Harness renders the stdin reading, the call and the output printing.
	Harness(vars []model.InputVariable, out coerce.Type) string
}

var dialects = map[model.Language]Dialect{
	model.LanguageJavaScript: javascript{},
	model.LanguagePython:     python{},
	model.LanguageCpp:        cpp{},
}

func DialectFor(lang model.Language) (Dialect, error) {
	d, ok := dialects[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedLanguage, lang)
	}
	return d, nil
}

// Generate returns the full starter program for lang.
func Generate(lang model.Language, vars []model.InputVariable, out coerce.Type) (string, error) {
	d, err := DialectFor(lang)
	if err != nil {
		return "", err
	}
	return d.Stub(vars, out) + "\n" + d.Harness(vars, out), nil
}

var reserved = mapset.NewThreadUnsafeSet(
	FunctionName, "result", "lines", "line", "main",
	// javascript
	"break", "case", "catch", "class", "const", "continue", "debugger", "default", "delete", "do",
	"else", "export", "extends", "false", "finally", "for", "function", "if", "import", "in",
	"instanceof", "let", "new", "null", "return", "super", "switch", "this", "throw", "true",
	"try", "typeof", "var", "void", "while", "with", "yield", "await", "require",
	// python
	"False", "None", "True", "and", "as", "assert", "async", "def", "del", "elif", "except",
	"from", "global", "is", "lambda", "nonlocal", "not", "or", "pass", "raise", "sys", "json", "re",
	// c++
	"auto", "bool", "char", "double", "float", "int", "long", "short", "signed", "unsigned",
	"string", "vector", "std", "struct", "template", "typename", "namespace", "using", "static",
	"sizeof", "operator", "private", "public", "protected", "virtual", "enum", "union", "goto",
)

// Reserved reports whether name cannot be used as an input variable because
// it clashes with a keyword or a harness identifier in a supported language.
func Reserved(name string) bool {
	return reserved.Contains(name) || strings.HasPrefix(name, "_")
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and data is always a harnessData.
		panic(fmt.Sprintf("boilerplate: render %s: %v", t.Name(), err))
	}
	return buf.String()
}

type harnessData struct {
	Count int
	Reads []string
	Call  string
	Print string
	// QuoteStrings wraps printed strings in double quotes like coerce.FormatScalar.
	QuoteStrings bool
}

func names(vars []model.InputVariable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}
