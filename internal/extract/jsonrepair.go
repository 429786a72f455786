package extract

import "strings"

// RepairJSON attempts to fix the JSON defects models most often
// produce: stray escaped quotes, raw newlines inside string values, an
// unterminated final string, and missing closing braces or brackets.
// The result is best-effort; callers should still expect Unmarshal to
// fail on genuinely broken output.
func RepairJSON(content string) string {
	content = strings.ReplaceAll(content, `\"`, `"`)

	var b strings.Builder
	inString := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if c == '"' && (i == 0 || content[i-1] != '\\') {
			inString = !inString
		}

		if inString && (c == '\n' || c == '\r') {
			b.WriteString(`\n`)
			continue
		}
		b.WriteByte(c)
	}

	if inString {
		b.WriteByte('"')
	}

	fixed := b.String()

	if n := strings.Count(fixed, "{") - strings.Count(fixed, "}"); n > 0 {
		fixed += strings.Repeat("}", n)
	}
	if n := strings.Count(fixed, "[") - strings.Count(fixed, "]"); n > 0 {
		fixed += strings.Repeat("]", n)
	}

	return fixed
}

// StripCodeFence removes a leading ```json or ``` marker and a trailing
// ``` marker from a model response.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.Replace(content, "```json", "", 1)
	} else if strings.HasPrefix(content, "```") {
		content = strings.Replace(content, "```", "", 1)
	}

	content = strings.TrimSpace(content)
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSpace(content[:len(content)-3])
	}

	return content
}

// TruncateToObject cuts content at the end of the first balanced JSON
// object. Models occasionally append prose after the closing brace.
func TruncateToObject(content string) string {
	if !strings.HasPrefix(content, "{") {
		return content
	}

	depth := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[:i+1]
			}
		}
	}
	return content
}
