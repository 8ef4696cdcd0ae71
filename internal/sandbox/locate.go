package sandbox

import (
	"regexp"
	"strings"
)

var (
	exportMarkerRe  = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+([A-Za-z_$][\w$]*)[ \t]*;?[ \t]*$`)
	exportKeywordRe = regexp.MustCompile(`(?m)^([ \t]*)export\s+(?:default\s+)?`)
	componentDeclRe = regexp.MustCompile(`(?m)(?:^|[\s;{}(])(?:function\s*\*?\s*([A-Z][\w$]*)\s*\(|(?:const|let|var)\s+([A-Z][\w$]*)\s*=)`)
)

// Locate picks the component identifier and returns the body with every export
// statement removed. A terminal `export default Name` wins; otherwise the last
// capitalised function or const declaration is used.
func Locate(executable string) (string, string, error) {
	markers := exportMarkerRe.FindAllStringSubmatchIndex(executable, -1)

	terminal := ""
	fallbackMarker := ""
	if len(markers) > 0 {
		last := markers[len(markers)-1]
		fallbackMarker = executable[last[2]:last[3]]
		if strings.TrimSpace(executable[last[1]:]) == "" {
			terminal = fallbackMarker
		}
	}

	body := exportMarkerRe.ReplaceAllString(executable, "")
	body = exportKeywordRe.ReplaceAllString(body, "${1}")

	if terminal != "" {
		return terminal, body, nil
	}

	if decls := componentDeclRe.FindAllStringSubmatch(body, -1); len(decls) > 0 {
		last := decls[len(decls)-1]
		if last[1] != "" {
			return last[1], body, nil
		}
		return last[2], body, nil
	}

	if fallbackMarker != "" {
		return fallbackMarker, body, nil
	}
	return "", body, &NoComponentFoundError{}
}
