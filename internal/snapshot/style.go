package snapshot

import (
	"strings"
)

// declaration is one "property: value" pair of an inline style attribute
type declaration struct {
	property string
	value    string
}

// declarations is an ordered inline style
type declarations []declaration

// parseStyle splits an inline style attribute into declarations. Semicolons
// inside quotes or parentheses (url(...), gradients) do not end a declaration.
// Malformed fragments without a colon are dropped.
func parseStyle(attr string) declarations {
	var decls declarations
	for _, part := range splitTopLevel(attr, ';') {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: value})
	}
	return decls
}

func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + len(string(r))
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// get returns the last value declared for prop, as the cascade would.
func (d declarations) get(prop string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].property == prop {
			return d[i].value, true
		}
	}
	return "", false
}

// set replaces every declaration of prop with a single one at the position of
// the first, or appends it.
func (d declarations) set(prop, value string) declarations {
	out := make(declarations, 0, len(d)+1)
	placed := false
	for _, decl := range d {
		if decl.property != prop {
			out = append(out, decl)
			continue
		}
		if !placed {
			out = append(out, declaration{property: prop, value: value})
			placed = true
		}
	}
	if !placed {
		out = append(out, declaration{property: prop, value: value})
	}
	return out
}

func (d declarations) remove(prop string) declarations {
	out := make(declarations, 0, len(d))
	for _, decl := range d {
		if decl.property != prop {
			out = append(out, decl)
		}
	}
	return out
}

func (d declarations) String() string {
	var sb strings.Builder
	for i, decl := range d {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(decl.property)
		sb.WriteString(": ")
		sb.WriteString(decl.value)
		sb.WriteString(";")
	}
	return sb.String()
}
