package normalize

// Bracket matching that skips string literals and comments. Template literals are
// treated as opaque strings.

var pairs = map[byte]byte{'(': ')', '{': '}', '[': ']', '<': '>'}

// matchClose returns the index of the bracket closing the one at open, or -1.
func matchClose(s string, open int) int {
	if open < 0 || open >= len(s) {
		return -1
	}
	oc := s[open]
	cc, ok := pairs[oc]
	if !ok {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipString(s, i)
			continue
		}
		if c == '/' && i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '*') {
			i = skipComment(s, i)
			continue
		}
		if oc == '<' && c == '>' && i > 0 && s[i-1] == '=' {
			continue
		}
		switch c {
		case oc:
			depth++
		case cc:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchOpen walks backwards from the ')' at close to its '('.
func matchOpen(s string, close int) int {
	depth := 0
	for i := close; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString returns the index of the quote closing the literal opened at i.
func skipString(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		case '\n':
			if q != '`' {
				return j
			}
		}
	}
	return len(s) - 1
}

func skipComment(s string, i int) int {
	if s[i+1] == '/' {
		for j := i; j < len(s); j++ {
			if s[j] == '\n' {
				return j - 1
			}
		}
		return len(s) - 1
	}
	for j := i + 2; j+1 < len(s); j++ {
		if s[j] == '*' && s[j+1] == '/' {
			return j + 1
		}
	}
	return len(s) - 1
}

// indexTopLevel finds target outside any bracket pair. An `=` only counts as an
// assignment, never as part of `=>`, `==`, `<=`, `>=` or `!=`.
func indexTopLevel(s string, target byte, angles bool) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipString(s, i)
			continue
		}
		if c == '=' && i+1 < len(s) && (s[i+1] == '>' || s[i+1] == '=') {
			i++
			continue
		}
		switch c {
		case '(', '{', '[':
			depth++
			continue
		case ')', '}', ']':
			depth--
			continue
		case '<':
			if angles {
				depth++
				continue
			}
		case '>':
			if angles {
				depth--
				continue
			}
		}
		if depth != 0 || c != target {
			continue
		}
		if c == '=' && i > 0 && (s[i-1] == '!' || s[i-1] == '<' || s[i-1] == '>' || s[i-1] == '=') {
			continue
		}
		return i
	}
	return -1
}

// splitTopLevel splits on sep outside brackets, including angle brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '"' || c == '`' {
			i = skipString(s, i)
			continue
		}
		if c == '=' && i+1 < len(s) && s[i+1] == '>' {
			i++
			continue
		}
		switch c {
		case '(', '{', '[', '<':
			depth++
		case ')', '}', ']', '>':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}
