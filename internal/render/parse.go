package render

import (
	"strings"
)

// ParsedLine is a protocol line split back into its parts.
type ParsedLine struct {
	Depth     int
	Text      string
	Separator bool
	Params    map[string]string
}

// ParseLine reverses Item.String for terminal previews.
func ParseLine(line string) ParsedLine {
	var p ParsedLine

	dashes := len(line) - len(strings.TrimLeft(line, "-"))
	if dashes == len(line) && dashes >= len(Separator) && (dashes-len(Separator))%len(submenuPrefix) == 0 {
		p.Separator = true
		p.Depth = (dashes - len(Separator)) / len(submenuPrefix)
		return p
	}

	p.Depth = dashes / len(submenuPrefix)
	line = line[p.Depth*len(submenuPrefix):]

	text, params, found := strings.Cut(line, "|")
	p.Text = strings.TrimSpace(text)
	if found {
		p.Params = parseParams(params)
	}
	return p
}

// parseParams splits key=value pairs, honouring double-quoted values.
func parseParams(s string) map[string]string {
	out := make(map[string]string)
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return out
		}
		key, rest, ok := strings.Cut(s, "=")
		if !ok {
			return out
		}
		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest[1:])
			if end < 0 {
				value, s = rest[1:], ""
			} else {
				value, s = rest[1:end+1], rest[end+2:]
			}
			value = strings.ReplaceAll(value, `\"`, `"`)
		} else {
			value, s, _ = strings.Cut(rest, " ")
		}
		out[key] = value
	}
}

func closingQuote(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			return i
		}
	}
	return -1
}
