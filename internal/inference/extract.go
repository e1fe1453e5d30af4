package inference

import "strings"

// ExtractJSONBlock finds the first balanced { ... } block in raw model text,
// tolerating markdown code fences and stray line comments. Models asked for
// structured output occasionally answer in prose with embedded JSON; this is
// the fallback path when the forced tool call was not honored.
func ExtractJSONBlock(raw string) string {
	cleaned := stripCodeFences(raw)
	block := balancedBlock(cleaned)
	if block == "" {
		return ""
	}
	return stripLineComments(block)
}

// stripCodeFences removes markdown code fences (```json ... ``` or ``` ... ```).
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// balancedBlock returns the first brace-balanced object in s, respecting
// string literals and escapes.
func balancedBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripLineComments removes C-style line comments outside of string values.
// Models sometimes annotate JSON output despite instructions not to.
func stripLineComments(s string) string {
	if !strings.Contains(s, "//") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' && inString {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			b.WriteByte(c)
			inString = !inString
			continue
		}
		if inString {
			b.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		}

		b.WriteByte(c)
	}
	return b.String()
}
