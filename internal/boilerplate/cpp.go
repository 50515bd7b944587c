package boilerplate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
)

type cpp struct{}

func (cpp) Language() model.Language { return model.LanguageCpp }

// Objects travel as their raw JSON text.
var cppScalar = map[coerce.BaseType]string{
	coerce.Integer: "long long",
	coerce.Float:   "double",
	coerce.String:  "string",
	coerce.Boolean: "bool",
	coerce.Object:  "string",
}

var cppParser = map[coerce.BaseType]string{
	coerce.Integer: "parseInteger",
	coerce.Float:   "parseFloat",
	coerce.String:  "parseString",
	coerce.Boolean: "parseBoolean",
	coerce.Object:  "parseObject",
}

func cppType(t coerce.Type) string {
	s := cppScalar[t.Base]
	for i := 0; i < t.Depth; i++ {
		s = "vector<" + s + ">"
	}
	return s
}

func (cpp) Params(vars []model.InputVariable) string {
	params := make([]string, len(vars))
	for i, v := range vars {
		params[i] = cppType(v.ValueType()) + " " + v.Name
	}
	return strings.Join(params, ", ")
}

func (cpp) DefaultReturn(out coerce.Type) string {
	if out.IsArray() {
		return "{}"
	}
	switch out.Base {
	case coerce.Integer:
		return "0"
	case coerce.Float:
		return "0.0"
	case coerce.String:
		return `""`
	case coerce.Boolean:
		return "false"
	}
	return `"{}"`
}

func (c cpp) Stub(vars []model.InputVariable, out coerce.Type) string {
	return fmt.Sprintf("#include <bits/stdc++.h>\nusing namespace std;\n\n%s %s(%s) {\n    // Write your code here\n    return %s;\n}\n",
		cppType(out), FunctionName, c.Params(vars), c.DefaultReturn(out))
}

func (c cpp) Harness(vars []model.InputVariable, out coerce.Type) string {
	// Objects are strings in C++ too but print as bare JSON.
	data := harnessData{Count: len(vars), QuoteStrings: out.Base == coerce.String}
	for i, v := range vars {
		if v.IsArray {
			data.Reads = append(data.Reads, fmt.Sprintf("%s %s = parseArray<%s>(lines[%d], %s);",
				cppType(v.ValueType()), v.Name, cppScalar[v.Type], i, cppParser[v.Type]))
		} else {
			data.Reads = append(data.Reads, fmt.Sprintf("%s %s = %s(lines[%d]);",
				cppType(v.ValueType()), v.Name, cppParser[v.Type], i))
		}
	}
	data.Call = fmt.Sprintf("%s result = %s(%s);", cppType(out), FunctionName, strings.Join(names(vars), ", "))
	data.Print = "cout << format_(result) << endl;"
	return render(cppHarness, data)
}

var cppHarness = template.Must(template.New("cpp").Parse(`// Reads input from stdin and prints the result. Do not modify.
static string trim_(const string& s) {
    size_t b = s.find_first_not_of(" \t\r\n");
    if (b == string::npos) return "";
    size_t e = s.find_last_not_of(" \t\r\n");
    return s.substr(b, e - b + 1);
}

static vector<string> split_(const string& raw, char sep) {
    vector<string> parts;
    if (trim_(raw).empty()) return parts;
    int depth = 0;
    bool quoted = false, escaped = false;
    size_t start = 0;
    for (size_t i = 0; i < raw.size(); i++) {
        char c = raw[i];
        if (escaped) escaped = false;
        else if (quoted && c == '\\') escaped = true;
        else if (c == '"') quoted = !quoted;
        else if (quoted) continue;
        else if (c == '{' || c == '[') depth++;
        else if (c == '}' || c == ']') { if (depth > 0) depth--; }
        else if (c == sep && depth == 0) { parts.push_back(trim_(raw.substr(start, i - start))); start = i + 1; }
    }
    parts.push_back(trim_(raw.substr(start)));
    return parts;
}

static long long parseInteger(const string& raw) {
    string s = trim_(raw);
    size_t i = 0;
    if (i < s.size() && (s[i] == '+' || s[i] == '-')) i++;
    size_t digits = i;
    while (i < s.size() && isdigit((unsigned char)s[i])) i++;
    if (i == digits) return 0;
    try { return stoll(s.substr(0, i)); } catch (...) { return 0; }
}

static double parseFloat(const string& raw) {
    string s = trim_(raw);
    try { size_t n = 0; double d = stod(s, &n); return n == s.size() ? d : 0.0; } catch (...) { return 0.0; }
}

static bool parseBoolean(const string& raw) {
    string s = trim_(raw);
    transform(s.begin(), s.end(), s.begin(), [](unsigned char c) { return tolower(c); });
    return s == "true";
}

static string parseString(const string& raw) {
    string s = trim_(raw);
    if (s.size() >= 2 && s.front() == '"' && s.back() == '"') return s.substr(1, s.size() - 2);
    return s;
}

static string parseObject(const string& raw) { return trim_(raw); }

template <typename T>
static vector<T> parseArray(const string& raw, T (*parse)(const string&)) {
    vector<T> out;
    for (const string& tok : split_(raw, ',')) out.push_back(parse(tok));
    return out;
}

static string format_(long long v) { return to_string(v); }
static string format_(double v) { ostringstream os; os << setprecision(15) << v; return os.str(); }
static string format_(bool v) { return v ? "true" : "false"; }
static const bool quoteStrings_ = {{.QuoteStrings}};

static string format_(const string& v) { return quoteStrings_ ? "\"" + v + "\"" : v; }

template <typename T>
static string format_(const vector<T>& v) {
    string out;
    for (size_t i = 0; i < v.size(); i++) {
        if (i) out += ',';
        T item = v[i];
        out += format_(item);
    }
    return out;
}

template <typename T>
static string format_(const vector<vector<T>>& v) {
    string out;
    for (size_t i = 0; i < v.size(); i++) {
        if (i) out += ';';
        out += format_(v[i]);
    }
    return out;
}

int main() {
    vector<string> lines;
    string line;
    while (getline(cin, line)) lines.push_back(line);
    while (lines.size() < {{.Count}}) lines.push_back("");
{{range .Reads}}    {{.}}
{{end}}    {{.Call}}
    {{.Print}}
    return 0;
}
`))
