// Package transpile turns scrubbed JSX into plain script with esbuild.
package transpile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"genesis-backend/internal/normalize"

	"github.com/evanw/esbuild/pkg/api"
)

const (
	Factory  = "React.createElement"
	Fragment = "React.Fragment"

	sourcefile = "generated-component.jsx"
)

var ErrTranspile = errors.New("transpile failed")

// TranspileError carries esbuild's formatted diagnostics untouched.
type TranspileError struct {
	Diagnostics string
	Messages    []api.Message
}

func (e *TranspileError) Error() string {
	return fmt.Sprintf("transpile failed: %s", e.Diagnostics)
}

func (e *TranspileError) Unwrap() error {
	return ErrTranspile
}

// CompileResult is what the compile helper reports.
type CompileResult struct {
	CompiledCode string
	OriginalCode string
	CleanCode    string
	ExportName   string
}

var classTemplateRe = regexp.MustCompile("className=\\{\\s*`")

// Transpile converts JSX into React.createElement calls targeting ES2015.
// Static text of className template literals containing ':' survives byte for byte.
func Transpile(clean string) (string, error) {
	protected, restore := protectClassTemplates(clean)

	result := api.Transform(protected, api.TransformOptions{
		Loader:      api.LoaderJSX,
		JSX:         api.JSXTransform,
		JSXFactory:  Factory,
		JSXFragment: Fragment,
		Target:      api.ES2015,
		Sourcefile:  sourcefile,
	})
	if len(result.Errors) > 0 {
		formatted := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
			Kind: api.ErrorMessage,
		})
		return "", &TranspileError{
			Diagnostics: strings.TrimSpace(strings.Join(formatted, "\n")),
			Messages:    result.Errors,
		}
	}

	return restore(string(result.Code)), nil
}

// Compile is Normalize followed by Transpile.
func Compile(code string) (*CompileResult, error) {
	scrubbed := normalize.Scrub(code)
	compiled, err := Transpile(scrubbed.Code)
	if err != nil {
		return nil, err
	}
	return &CompileResult{
		CompiledCode: strings.TrimSpace(compiled),
		OriginalCode: code,
		CleanCode:    scrubbed.Code,
		ExportName:   scrubbed.ExportName,
	}, nil
}

// Executable is the compiled code with the default export marker restored, the
// form the sandbox locates components in.
func (r *CompileResult) Executable() string {
	if r.ExportName == "" {
		return r.CompiledCode
	}
	return r.CompiledCode + "\nexport default " + r.ExportName + ";"
}

// protectClassTemplates swaps static template text holding a ':' for opaque
// placeholders and returns the function that puts the originals back.
func protectClassTemplates(code string) (string, func(string) string) {
	var originals []string

	var b strings.Builder
	last := 0
	for _, loc := range classTemplateRe.FindAllStringIndex(code, -1) {
		open := loc[1] - 1
		if open < last {
			continue
		}
		end, quasis := templateQuasis(code, open)
		if end < 0 {
			break
		}
		b.WriteString(code[last : open+1])
		cursor := open + 1
		for _, q := range quasis {
			b.WriteString(code[cursor:q[0]])
			text := code[q[0]:q[1]]
			if strings.Contains(text, ":") {
				b.WriteString(placeholder(len(originals)))
				originals = append(originals, text)
			} else {
				b.WriteString(text)
			}
			cursor = q[1]
		}
		b.WriteString(code[cursor : end+1])
		last = end + 1
	}
	b.WriteString(code[last:])

	if len(originals) == 0 {
		return code, func(s string) string { return s }
	}
	return b.String(), func(s string) string {
		for i, text := range originals {
			s = strings.Replace(s, placeholder(i), text, 1)
		}
		return s
	}
}

func placeholder(i int) string {
	return fmt.Sprintf("__genesis_cls_%d__", i)
}

// templateQuasis returns the index of the closing backtick of the template literal
// opened at open, and the byte ranges of its static parts.
func templateQuasis(s string, open int) (int, [][2]int) {
	var quasis [][2]int
	start := open + 1
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '`':
			quasis = append(quasis, [2]int{start, i})
			return i, quasis
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				quasis = append(quasis, [2]int{start, i})
				depth := 0
				j := i + 1
				for ; j < len(s); j++ {
					if s[j] == '{' {
						depth++
					} else if s[j] == '}' {
						depth--
						if depth == 0 {
							break
						}
					}
				}
				if j >= len(s) {
					return -1, nil
				}
				i = j
				start = j + 1
			}
		}
	}
	return -1, nil
}
