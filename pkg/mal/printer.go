package mal

import "strings"

// PrStr renders v as text. In readable mode, strings are quoted with escape
// sequences suitable for re-reading; in display mode, string contents are
// emitted raw. The printer is the inverse of the reader on the value subset
// the reader produces, modulo HashMap ordering (spec.md §4.2).
func PrStr(v Value, readable bool) string {
	switch t := v.(type) {
	case String:
		if readable {
			return quoteString(string(t))
		}
		return string(t)
	case nil:
		return "nil"
	case *List:
		return printSequential("(", ")", t.elements, readable)
	case *Vector:
		return printSequential("[", "]", t.elements, readable)
	case *HashMap:
		return printHashMap(t, readable)
	default:
		return v.String()
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// PrStrAll renders a sequence of values joined by sep, each in the given mode.
func PrStrAll(values []Value, sep string, readable bool) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = PrStr(v, readable)
	}
	return strings.Join(parts, sep)
}
