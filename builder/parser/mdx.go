package parser

import (
	"strings"
)

// StripESM removes top-level import/export statements from an MDX body so
// the remainder can go through the Markdown pipeline. Lines inside fenced
// code blocks are left alone. Multi-line statements run until their braces
// balance and, for imports, the module specifier has been seen.
func StripESM(body string) string {
	lines := strings.SplitAfter(body, "\n")
	var out strings.Builder
	out.Grow(len(body))

	fence := ""
	inStmt, isImport := false, false
	depth := 0

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")

		if inStmt {
			depth += braceDelta(trimmed)
			if depth <= 0 && (!isImport || hasModuleSpecifier(trimmed)) || strings.TrimSpace(trimmed) == "" {
				inStmt = false
			}
			continue
		}

		if fence != "" {
			if strings.HasPrefix(strings.TrimSpace(trimmed), fence) {
				fence = ""
			}
			out.WriteString(line)
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			fence = f
			out.WriteString(line)
			continue
		}

		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") {
			isImport = strings.HasPrefix(trimmed, "import ")
			depth = braceDelta(trimmed)
			if depth > 0 || (isImport && !hasModuleSpecifier(trimmed) && !strings.HasSuffix(trimmed, ";")) {
				inStmt = true
			}
			continue
		}

		out.WriteString(line)
	}
	return out.String()
}

func fenceMarker(line string) string {
	s := strings.TrimLeft(line, " ")
	if len(line)-len(s) > 3 {
		return ""
	}
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(s, m) {
			return m
		}
	}
	return ""
}

func braceDelta(line string) int {
	return strings.Count(line, "{") + strings.Count(line, "(") -
		strings.Count(line, "}") - strings.Count(line, ")")
}

// hasModuleSpecifier reports whether an import line ends with a quoted path.
func hasModuleSpecifier(line string) bool {
	s := strings.TrimSuffix(strings.TrimSpace(line), ";")
	return strings.HasSuffix(s, `"`) || strings.HasSuffix(s, `'`)
}
