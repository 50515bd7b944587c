package model

type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageCpp        Language = "cpp"
)

var Languages = []Language{LanguageJavaScript, LanguagePython, LanguageCpp}

func (l Language) Valid() bool {
	switch l {
	case LanguageJavaScript, LanguagePython, LanguageCpp:
		return true
	}
	return false
}

// Runtime is a language version the remote executor can run.
type Runtime struct {
	Language Language `json:"language" toml:"language"`
	Version  string   `json:"version" toml:"version"`
	Aliases  []string `json:"aliases,omitempty" toml:"aliases"`
}
