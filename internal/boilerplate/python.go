package boilerplate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
)

type python struct{}

func (python) Language() model.Language { return model.LanguagePython }

func (python) Params(vars []model.InputVariable) string {
	return strings.Join(names(vars), ", ")
}

func (python) DefaultReturn(out coerce.Type) string {
	if out.IsArray() {
		return "[]"
	}
	switch out.Base {
	case coerce.Integer:
		return "0"
	case coerce.Float:
		return "0.0"
	case coerce.String:
		return `""`
	case coerce.Boolean:
		return "False"
	}
	return "{}"
}

func (py python) Stub(vars []model.InputVariable, out coerce.Type) string {
	return fmt.Sprintf("import json\nimport re\nimport sys\n\n\ndef %s(%s):\n    # Write your code here\n    return %s\n",
		FunctionName, py.Params(vars), py.DefaultReturn(out))
}

func (py python) Harness(vars []model.InputVariable, out coerce.Type) string {
	data := harnessData{Count: len(vars)}
	for i, v := range vars {
		if v.IsArray {
			data.Reads = append(data.Reads, fmt.Sprintf("%s = [_parse(x, '%s') for x in _split(_line(%d), ',')]", v.Name, v.Type, i))
		} else {
			data.Reads = append(data.Reads, fmt.Sprintf("%s = _parse(_line(%d), '%s')", v.Name, i, v.Type))
		}
	}
	data.Call = fmt.Sprintf("_result = %s(%s)", FunctionName, py.Params(vars))

	switch out.Depth {
	case 0:
		data.Print = fmt.Sprintf("print(_format(_result, '%s'))", out.Base)
	case 1:
		data.Print = fmt.Sprintf("print(','.join(_format(x, '%s') for x in (_result or [])))", out.Base)
	default:
		data.Print = fmt.Sprintf("print(';'.join(','.join(_format(x, '%s') for x in row) for row in (_result or [])))", out.Base)
	}
	return render(pyHarness, data)
}

var pyHarness = template.Must(template.New("python").Parse(`
# Reads input from stdin and prints the result. Do not modify.
def _split(raw, sep):
    if not raw.strip():
        return []
    parts, depth, quoted, escaped, start = [], 0, False, False, 0
    for i, c in enumerate(raw):
        if escaped:
            escaped = False
        elif quoted and c == '\\':
            escaped = True
        elif c == '"':
            quoted = not quoted
        elif quoted:
            continue
        elif c in '{[':
            depth += 1
        elif c in '}]':
            depth = max(depth - 1, 0)
        elif c == sep and depth == 0:
            parts.append(raw[start:i].strip())
            start = i + 1
    parts.append(raw[start:].strip())
    return parts


def _parse(raw, kind):
    s = raw.strip()
    if kind == 'integer':
        m = re.match(r'[+-]?\d+', s)
        return int(m.group(0)) if m else 0
    if kind == 'float':
        try:
            return float(s)
        except ValueError:
            return 0.0
    if kind == 'boolean':
        return s.lower() == 'true'
    if kind == 'object':
        return json.loads(s)
    if len(s) >= 2 and s[0] == '"' and s[-1] == '"':
        return s[1:-1]
    return s


def _format(value, kind):
    if kind == 'object':
        return json.dumps(value, separators=(',', ':'))
    if kind == 'boolean':
        return 'true' if value else 'false'
    if kind == 'string':
        return '"' + str(value) + '"'
    return str(value)


_lines = sys.stdin.read().split('\n')


def _line(i):
    return _lines[i] if i < len(_lines) else ''


if __name__ == '__main__':
{{- range .Reads}}
    {{.}}
{{- end}}
    {{.Call}}
    {{.Print}}
`))
