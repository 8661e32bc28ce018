package token

import "strconv"

// FileTable maps a Position.FileIndex to a display path. Package
// compiler's Context does not hold one; a caller that formats positions
// passes its own to Format. Position itself stays a plain value type.
type FileTable struct {
	names []string
}

// Intern registers name and returns its stable file index.
func (t *FileTable) Intern(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	t.names = append(t.names, name)
	return len(t.names) - 1
}

// Name returns the display path for a file index, or "<unknown>".
func (t *FileTable) Name(idx int) string {
	if idx < 0 || idx >= len(t.names) {
		return "<unknown>"
	}
	return t.names[idx]
}

func formatPosition(p Position) string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Format renders a position against a FileTable in the
// "<file>:<line>:<col>" form used by diagnostics.
func Format(t *FileTable, p Position) string {
	return t.Name(p.FileIndex) + ":" + formatPosition(p)
}
