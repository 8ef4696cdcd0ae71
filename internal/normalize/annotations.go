package normalize

import "strings"

// StripAnnotations removes type annotations in declaration positions: variable
// declarations, function and arrow parameter lists, return types and generic
// arguments on hook calls. Object literals, ternaries and JSX text are left alone
// because colons outside those positions are never touched.
func StripAnnotations(code string) string {
	code = stripDeclarationTypes(code)
	code = stripFunctionSignatures(code)
	code = stripArrowSignatures(code)
	code = stripHookGenerics(code)
	return code
}

// const Hero: React.FC<HeroProps> = ...  ->  const Hero = ...
func stripDeclarationTypes(code string) string {
	var edits []edit
	for _, loc := range declTypeRe.FindAllStringIndex(code, -1) {
		colon := loc[1] - 1
		end := typeEnd(code, colon+1, true)
		start := colon
		for start > loc[0] && (code[start-1] == ' ' || code[start-1] == '\t') {
			start--
		}
		text := ""
		if end < len(code) && code[end] == '=' {
			text = " "
		}
		edits = append(edits, edit{start: start, end: end, text: text})
	}
	return applyEdits(code, edits)
}

// function Hero({ title }: HeroProps): JSX.Element {  ->  function Hero({ title }) {
func stripFunctionSignatures(code string) string {
	var edits []edit
	for _, loc := range functionOpenRe.FindAllStringIndex(code, -1) {
		open := loc[1] - 1
		close := matchClose(code, open)
		if close < 0 {
			continue
		}
		params := code[open+1 : close]
		if stripped := stripParams(params); stripped != params {
			edits = append(edits, edit{start: open + 1, end: close, text: stripped})
		}
		if ret, ok := returnTypeRange(code, close+1); ok {
			edits = append(edits, edit{start: close + 1, end: ret, text: " "})
		}
	}
	return applyEdits(code, edits)
}

// ({ title }: Props): JSX.Element =>  ->  ({ title }) =>
func stripArrowSignatures(code string) string {
	var edits []edit
	for _, m := range arrowRe.FindAllStringSubmatchIndex(code, -1) {
		close := m[0]
		open := matchOpen(code, close)
		if open < 0 {
			continue
		}
		params := code[open+1 : close]
		if stripped := stripParams(params); stripped != params {
			edits = append(edits, edit{start: open + 1, end: close, text: stripped})
		}
		if m[2] >= 0 {
			edits = append(edits, edit{start: m[2], end: m[3], text: ""})
		}
	}
	return applyEdits(code, edits)
}

// useState<string[]>([])  ->  useState([])
func stripHookGenerics(code string) string {
	var edits []edit
	for _, m := range hookGenericRe.FindAllStringSubmatchIndex(code, -1) {
		open := m[1] - 1
		close := matchClose(code, open)
		if close < 0 {
			continue
		}
		rest := strings.TrimLeft(code[close+1:], " \t")
		if !strings.HasPrefix(rest, "(") {
			continue
		}
		start := open
		for start > m[3] && (code[start-1] == ' ' || code[start-1] == '\t') {
			start--
		}
		edits = append(edits, edit{start: start, end: close + 1})
	}
	return applyEdits(code, edits)
}

// returnTypeRange reports the end of a `: Type` between a parameter list closing at
// from-1 and the body brace.
func returnTypeRange(code string, from int) (int, bool) {
	i := from
	for i < len(code) && (code[i] == ' ' || code[i] == '\t') {
		i++
	}
	if i >= len(code) || code[i] != ':' {
		return 0, false
	}
	depth := 0
	for j := i + 1; j < len(code); j++ {
		switch code[j] {
		case '<', '(', '[':
			depth++
		case '>':
			if code[j-1] != '=' {
				depth--
			}
		case ')', ']':
			depth--
		case '{':
			if depth == 0 {
				return j, true
			}
			depth++
		case '}':
			depth--
		case ';', '\n':
			if depth == 0 {
				return 0, false
			}
		}
	}
	return 0, false
}

func stripParams(params string) string {
	if strings.IndexByte(params, ':') < 0 {
		return params
	}
	parts := splitTopLevel(params, ',')
	for i, p := range parts {
		parts[i] = stripParam(p)
	}
	return strings.Join(parts, ",")
}

// stripParam drops the annotation and optional marker of one parameter, keeping defaults.
func stripParam(p string) string {
	colon := indexTopLevel(p, ':', false)
	if colon < 0 {
		return p
	}
	if eq := indexTopLevel(p, '=', false); eq >= 0 && eq < colon {
		return p
	}

	name := strings.TrimRight(p[:colon], " \t")
	name = strings.TrimRight(strings.TrimSuffix(name, "?"), " \t")
	if strings.TrimSpace(name) == "" {
		return p
	}

	rest := p[colon+1:]
	if eq := indexTopLevel(rest, '=', true); eq >= 0 {
		return name + " " + strings.TrimLeft(rest[eq:], " \t")
	}
	trailing := p[len(strings.TrimRight(p, " \t\r\n")):]
	return name + trailing
}

// typeEnd scans a type expression starting at from and returns the index of the
// terminating `=`, `;`, `,` or newline at depth zero.
func typeEnd(s string, from int, angles bool) int {
	depth := 0
	for i := from; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipString(s, i)
			continue
		}
		switch c {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth == 0 {
				return i
			}
			depth--
		case '<':
			if angles {
				depth++
			}
		case '>':
			if angles && s[i-1] != '=' {
				depth--
			}
		case '=':
			if depth == 0 && (i+1 >= len(s) || s[i+1] != '>') {
				return i
			}
		case ';', ',', '\n':
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}
