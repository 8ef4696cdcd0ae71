package generator

import (
	"regexp"
	"strings"
)

var (
	fenceStartRe = regexp.MustCompile("(?m)^```\\w*\\n?")
	fenceEndRe   = regexp.MustCompile("(?m)\\n?```$")
	fencedRe     = regexp.MustCompile("```\\w*\\n?([\\s\\S]*?)\\n?```")
)

// AcceptancePolicy decides whether cleaned output is a complete snippet.
type AcceptancePolicy func(cleaned string) bool

// DefaultPolicy accepts text that carries a default export or ends like a
// component declaration.
func DefaultPolicy(cleaned string) bool {
	return strings.Contains(cleaned, "export default") || strings.HasSuffix(cleaned, "};")
}

// Cleanup strips markdown fences from raw model output. When fences survive the
// line-anchored pass the first fenced block's interior is used.
func Cleanup(raw string) string {
	cleaned := fenceStartRe.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = fenceEndRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if strings.Contains(cleaned, "```") {
		if m := fencedRe.FindStringSubmatch(cleaned); m != nil && m[1] != "" {
			cleaned = strings.TrimSpace(m[1])
		}
	}
	return cleaned
}

// Accept runs Cleanup then policy, returning TruncatedOutputError on rejection.
func Accept(raw string, policy AcceptancePolicy) (string, error) {
	if policy == nil {
		policy = DefaultPolicy
	}
	cleaned := Cleanup(raw)
	if !policy(cleaned) {
		return "", &TruncatedOutputError{Length: len(cleaned)}
	}
	return cleaned, nil
}
