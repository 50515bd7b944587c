package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/pelletier/go-toml/v2"
)

//go:embed runtimes.toml
var defaultRuntimes []byte

type runtimesFile struct {
	Runtime []model.Runtime `toml:"runtime"`
}

// Runtimes is the catalog of language versions solvers may use.
type Runtimes struct {
	byLanguage map[model.Language]model.Runtime
	ordered    []model.Runtime
}

// LoadRuntimes reads the catalog from path, or the built-in catalog when
// path is empty.
func LoadRuntimes(path string) (*Runtimes, error) {
	data := defaultRuntimes
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read runtimes file: %w", err)
		}
	}
	return ParseRuntimes(data)
}

func ParseRuntimes(data []byte) (*Runtimes, error) {
	var f runtimesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse runtimes: %w", err)
	}

	rt := &Runtimes{byLanguage: make(map[model.Language]model.Runtime)}
	for _, r := range f.Runtime {
		if !r.Language.Valid() {
			return nil, fmt.Errorf("runtime %q: unknown language", r.Language)
		}
		if r.Version == "" {
			return nil, fmt.Errorf("runtime %q: missing version", r.Language)
		}
		if _, dup := rt.byLanguage[r.Language]; dup {
			return nil, fmt.Errorf("runtime %q: declared twice", r.Language)
		}
		rt.byLanguage[r.Language] = r
		rt.ordered = append(rt.ordered, r)
	}
	return rt, nil
}

func (r *Runtimes) Get(lang model.Language) (model.Runtime, bool) {
	rt, ok := r.byLanguage[lang]
	return rt, ok
}

// Version returns the configured version of lang or "" when it has none.
func (r *Runtimes) Version(lang model.Language) string {
	return r.byLanguage[lang].Version
}

func (r *Runtimes) All() []model.Runtime {
	return append([]model.Runtime(nil), r.ordered...)
}
