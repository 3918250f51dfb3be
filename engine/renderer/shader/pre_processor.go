package shader

import (
	"fmt"
	"strings"
)

// includeDirective starts a line that is replaced by a registered Include.
//
//	//@oxy:include lights
const includeDirective = "//@oxy:include"

// resolveIncludes replaces every include directive with the source of the named snippet.
// Each snippet is emitted once; repeated directives for the same name are dropped so that
// shared structs are never declared twice. Included text is scanned for further directives.
//
// Parameters:
//   - source: the raw WGSL source
//   - includes: the available snippets keyed by name
//
// Returns:
//   - string: the expanded source
//   - error: error naming the line of an unknown or empty include
func resolveIncludes(source string, includes map[string]string) (string, error) {
	seen := make(map[string]bool)
	var sb strings.Builder
	if err := expandIncludes(&sb, source, includes, seen, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func expandIncludes(sb *strings.Builder, source string, includes map[string]string, seen map[string]bool, stack []string) error {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			sb.WriteString(line)
			if i < len(lines)-1 {
				sb.WriteByte('\n')
			}
			continue
		}

		name := strings.TrimSpace(rest)
		if name == "" {
			return fmt.Errorf("line %d: include directive without a name", i+1)
		}
		for _, open := range stack {
			if open == name {
				return fmt.Errorf("line %d: include cycle through %q", i+1, name)
			}
		}
		if seen[name] {
			continue
		}
		body, ok := includes[name]
		if !ok {
			return fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		seen[name] = true

		if err := expandIncludes(sb, body, includes, seen, append(stack, name)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sb.WriteByte('\n')
	}
	return nil
}
