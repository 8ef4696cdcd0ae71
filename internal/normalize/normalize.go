// Package normalize scrubs generated component snippets down to plain JSX.
//
// It is a lexical scrubber, not a parser: it removes markdown fences, module
// statements and the static type syntax the generator tends to emit, and passes
// everything it does not recognise through untouched. Callers that need a
// guaranteed render fall back to templates when the scrubbed text still fails.
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// AnonymousName is given to an unnamed default-exported component.
const AnonymousName = "GeneratedComponent"

// Result is the scrubbed snippet plus the identifier the snippet default-exported, if any.
type Result struct {
	Code       string
	ExportName string
}

var (
	fenceOpenRe  = regexp.MustCompile("(?m)^[ \t]*```[\\w-]*[ \t]*\\n?")
	fenceCloseRe = regexp.MustCompile("(?m)\\n?[ \t]*```[ \t]*$")

	importFromRe   = regexp.MustCompile(`(?ms)^[ \t]*import\s+[^;'"]*?\bfrom\s*['"][^'"\n]+['"][ \t]*;?[ \t]*\n?`)
	importBareRe   = regexp.MustCompile(`(?m)^[ \t]*import\s*['"][^'"\n]+['"][ \t]*;?[ \t]*\n?`)
	requireLineRe  = regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)\s+[^=\n]+=\s*require\(\s*['"][^'"\n]+['"]\s*\)[ \t]*;?[ \t]*\n?`)
	exportNamedRe  = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+([A-Za-z_$][\w$]*)[ \t]*;?[ \t]*(?:\n|$)`)
	exportFuncRe   = regexp.MustCompile(`(?m)^([ \t]*)export\s+default\s+function(\s*\*?\s*)([A-Za-z_$][\w$]*)`)
	exportAnonFnRe = regexp.MustCompile(`(?m)^([ \t]*)export\s+default\s+function\s*\(`)
	exportArrowRe  = regexp.MustCompile(`(?m)^([ \t]*)export\s+default\s+(\(|async\s)`)
	exportDeclRe   = regexp.MustCompile(`(?m)^([ \t]*)export\s+(const|let|var|function)\b`)

	interfaceRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?interface\s+[A-Za-z_$][\w$]*[^{\n]*\{`)
	typeAliasRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?type\s+[A-Za-z_$][\w$]*\s*(?:<[^>\n]*>)?\s*=`)

	declTypeRe     = regexp.MustCompile(`(?m)(?:^|[;{(])[ \t]*(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*:`)
	functionOpenRe = regexp.MustCompile(`\bfunction\b\s*\*?\s*[A-Za-z_$]?[\w$]*\s*\(`)
	arrowRe        = regexp.MustCompile(`\)(\s*:\s*[^=(){};\n]+?)?\s*=>`)
	hookGenericRe  = regexp.MustCompile(`\b(use[A-Z][\w$]*)\s*<`)

	blankLinesRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// Normalize returns the scrubbed snippet. It is total and idempotent.
func Normalize(text string) string {
	return Scrub(text).Code
}

// Scrub runs every pass in order and also reports the default-exported identifier.
// Passes repeat until the text stops changing, which keeps Normalize idempotent when
// one removal exposes another.
func Scrub(text string) Result {
	code, name := scrubOnce(text)
	for i := 0; i < maxPasses; i++ {
		next, n := scrubOnce(code)
		if name == "" {
			name = n
		}
		if next == code {
			break
		}
		code = next
	}
	return Result{Code: code, ExportName: name}
}

const maxPasses = 10

func scrubOnce(text string) (string, string) {
	code := StripFences(text)
	code = stripImports(code)
	code, name := stripDefaultExport(code)
	code = stripTypeDeclarations(code)
	code = StripAnnotations(code)
	code = blankLinesRe.ReplaceAllString(code, "\n\n")
	return strings.TrimSpace(code), name
}

// StripFences removes markdown code fence markers at line starts and line ends.
func StripFences(text string) string {
	text = fenceOpenRe.ReplaceAllString(text, "")
	text = fenceCloseRe.ReplaceAllString(text, "")
	return text
}

func stripImports(code string) string {
	code = importFromRe.ReplaceAllString(code, "")
	code = importBareRe.ReplaceAllString(code, "")
	code = requireLineRe.ReplaceAllString(code, "")
	return code
}

// stripDefaultExport removes `export default` statements. The last named export wins.
func stripDefaultExport(code string) (string, string) {
	name := ""

	for _, m := range exportNamedRe.FindAllStringSubmatch(code, -1) {
		name = m[1]
	}
	code = exportNamedRe.ReplaceAllString(code, "\n")

	if m := exportFuncRe.FindAllStringSubmatch(code, -1); len(m) > 0 && name == "" {
		name = m[len(m)-1][3]
	}
	code = exportFuncRe.ReplaceAllString(code, "${1}function${2}${3}")

	if exportAnonFnRe.MatchString(code) {
		if name == "" {
			name = AnonymousName
		}
		code = exportAnonFnRe.ReplaceAllString(code, "${1}function "+AnonymousName+"(")
	}
	if exportArrowRe.MatchString(code) {
		if name == "" {
			name = AnonymousName
		}
		code = exportArrowRe.ReplaceAllString(code, "${1}const "+AnonymousName+" = ${2}")
	}

	code = exportDeclRe.ReplaceAllString(code, "${1}${2}")
	return code, name
}

// stripTypeDeclarations removes interface blocks and type aliases.
func stripTypeDeclarations(code string) string {
	for {
		loc := interfaceRe.FindStringIndex(code)
		if loc == nil {
			break
		}
		end := matchClose(code, loc[1]-1)
		if end < 0 {
			// unterminated: leave the rest for the transpiler to reject
			break
		}
		code = code[:loc[0]] + trimLeadingNewline(code[end+1:])
	}

	for {
		loc := typeAliasRe.FindStringIndex(code)
		if loc == nil {
			break
		}
		end := typeAliasEnd(code, loc[1])
		code = code[:loc[0]] + trimLeadingNewline(code[end:])
	}
	return code
}

// typeAliasEnd finds the end of a type alias body: a semicolon at depth zero, or a
// newline at depth zero that is not followed by a continued union or intersection.
func typeAliasEnd(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		if q := s[i]; q == '\'' || q == '"' || q == '`' {
			i = skipString(s, i)
			continue
		}
		switch s[i] {
		case '(', '{', '[', '<':
			depth++
		case ')', '}', ']':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		case ';':
			if depth <= 0 {
				return i + 1
			}
		case '\n':
			if depth <= 0 {
				next := strings.TrimLeft(s[i+1:], " \t")
				if !strings.HasPrefix(next, "|") && !strings.HasPrefix(next, "&") {
					return i
				}
			}
		}
	}
	return len(s)
}

func trimLeadingNewline(s string) string {
	t := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(t, "\r\n") {
		return t[2:]
	}
	if strings.HasPrefix(t, "\n") {
		return t[1:]
	}
	return s
}

type edit struct {
	start, end int
	text       string
}

// applyEdits replaces non-overlapping ranges; when two overlap the earlier one is kept.
func applyEdits(s string, edits []edit) string {
	if len(edits) == 0 {
		return s
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(s[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(s[last:])
	return b.String()
}
