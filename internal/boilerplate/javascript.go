package boilerplate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
)

type javascript struct{}

func (javascript) Language() model.Language { return model.LanguageJavaScript }

func (javascript) Params(vars []model.InputVariable) string {
	return strings.Join(names(vars), ", ")
}

func (javascript) DefaultReturn(out coerce.Type) string {
	if out.IsArray() {
		return "[]"
	}
	switch out.Base {
	case coerce.Integer, coerce.Float:
		return "0"
	case coerce.String:
		return `""`
	case coerce.Boolean:
		return "false"
	}
	return "{}"
}

func (js javascript) Stub(vars []model.InputVariable, out coerce.Type) string {
	return fmt.Sprintf("function %s(%s) {\n    // Write your code here\n    return %s;\n}\n",
		FunctionName, js.Params(vars), js.DefaultReturn(out))
}

func (js javascript) Harness(vars []model.InputVariable, out coerce.Type) string {
	data := harnessData{Count: len(vars)}
	for i, v := range vars {
		line := fmt.Sprintf("__lines[%d] ?? ''", i)
		if v.IsArray {
			data.Reads = append(data.Reads, fmt.Sprintf("const %s = __split(%s, ',').map((x) => __parse(x, '%s'));", v.Name, line, v.Type))
		} else {
			data.Reads = append(data.Reads, fmt.Sprintf("const %s = __parse(%s, '%s');", v.Name, line, v.Type))
		}
	}
	data.Call = fmt.Sprintf("const __result = %s(%s);", FunctionName, js.Params(vars))

	switch out.Depth {
	case 0:
		data.Print = fmt.Sprintf("console.log(__format(__result, '%s'));", out.Base)
	case 1:
		data.Print = fmt.Sprintf("console.log((__result ?? []).map((x) => __format(x, '%s')).join(','));", out.Base)
	default:
		data.Print = fmt.Sprintf("console.log((__result ?? []).map((row) => row.map((x) => __format(x, '%s')).join(',')).join(';'));", out.Base)
	}
	return render(jsHarness, data)
}

var jsHarness = template.Must(template.New("javascript").Parse(`// Reads input from stdin and prints the result. Do not modify.
const __lines = require('fs').readFileSync(0, 'utf-8').split('\n');

function __split(raw, sep) {
    if (raw.trim() === '') return [];
    const parts = [];
    let depth = 0, quoted = false, escaped = false, start = 0;
    for (let i = 0; i < raw.length; i++) {
        const c = raw[i];
        if (escaped) { escaped = false; }
        else if (quoted && c === '\\') { escaped = true; }
        else if (c === '"') { quoted = !quoted; }
        else if (quoted) { continue; }
        else if (c === '{' || c === '[') { depth++; }
        else if (c === '}' || c === ']') { if (depth > 0) depth--; }
        else if (c === sep && depth === 0) { parts.push(raw.slice(start, i).trim()); start = i + 1; }
    }
    parts.push(raw.slice(start).trim());
    return parts;
}

function __parse(raw, type) {
    const s = (raw ?? '').trim();
    switch (type) {
        case 'integer': { const n = parseInt(s, 10); return Number.isNaN(n) ? 0 : n; }
        case 'float': { const n = Number(s); return s === '' || Number.isNaN(n) ? 0 : n; }
        case 'boolean': return s.toLowerCase() === 'true';
        case 'object': return JSON.parse(s);
        default: return s.length >= 2 && s.startsWith('"') && s.endsWith('"') ? s.slice(1, -1) : s;
    }
}

function __format(value, type) {
    if (type === 'object') return JSON.stringify(value);
    if (type === 'boolean') return value ? 'true' : 'false';
    if (type === 'string') return '"' + String(value) + '"';
    return String(value);
}

{{range .Reads}}{{.}}
{{end}}{{.Call}}
{{.Print}}
`))
