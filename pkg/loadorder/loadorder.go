// Package loadorder parses, serializes and synchronizes the ordered list of
// packages that makes up a deployment.
//
// The file format is one entry per line:
//
//	Base Game Fixes        enabled package
//	~Optional Textures     disabled package (* is accepted too)
//	#Graphics              separator
//
// Position is priority: later entries win file collisions.
package loadorder

import (
	"bufio"
	"io"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
)

// State is the state of a load order entry
type State int

const (
	Enabled State = iota
	Disabled
	Separator
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	case Separator:
		return "separator"
	}
	return "unknown"
}

// Line markers
const (
	SeparatorMarker       = '#'
	DisabledMarker        = '~'
	AltDisabledMarker     = '*'
	defaultDisabledMarker = DisabledMarker
)

// Entry is one line of the load order. For separators Name holds the label.
type Entry struct {
	Name  string
	State State
	// Marker is the disabled marker read from disk, kept so that an
	// untouched file saves back unchanged. Zero means the default.
	Marker rune
}

// IsPackage reports whether the entry refers to a package directory
func (e Entry) IsPackage() bool {
	return e.State != Separator
}

// String renders the entry as a load order line
func (e Entry) String() string {
	switch e.State {
	case Separator:
		return string(SeparatorMarker) + e.Name
	case Disabled:
		marker := e.Marker
		if marker == 0 {
			marker = defaultDisabledMarker
		}
		return string(marker) + e.Name
	}
	return e.Name
}

// LoadOrder is an ordered sequence of entries
type LoadOrder []Entry

// Parse reads a load order. Blank lines are skipped and every line is
// trimmed. A disabled marker with no name is a parse error.
func Parse(r io.Reader) (LoadOrder, error) {
	var order LoadOrder
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line[0] {
		case SeparatorMarker:
			order = append(order, Entry{Name: strings.TrimSpace(line[1:]), State: Separator})
		case DisabledMarker, AltDisabledMarker:
			name := strings.TrimSpace(line[1:])
			if name == "" {
				return nil, errors.Newf(errors.ErrLoadOrderParse, "line %d: disabled marker without a package name", lineNo).
					WithDetail("line", lineNo)
			}
			order = append(order, Entry{Name: name, State: Disabled, Marker: rune(line[0])})
		default:
			order = append(order, Entry{Name: line, State: Enabled})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrLoadOrderParse, "failed to read load order")
	}
	return order, nil
}

// ParseString parses a load order held in memory
func ParseString(s string) (LoadOrder, error) {
	return Parse(strings.NewReader(s))
}

// Format renders the load order, one entry per line with a trailing newline
func (lo LoadOrder) Format() string {
	var b strings.Builder
	for _, e := range lo {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns an independent copy
func (lo LoadOrder) Clone() LoadOrder {
	if lo == nil {
		return nil
	}
	out := make(LoadOrder, len(lo))
	copy(out, lo)
	return out
}

// Index returns the position of the package entry called name, or -1
func (lo LoadOrder) Index(name string) int {
	for i, e := range lo {
		if e.IsPackage() && e.Name == name {
			return i
		}
	}
	return -1
}

// Packages returns the names of all package entries in order
func (lo LoadOrder) Packages() []string {
	var names []string
	for _, e := range lo {
		if e.IsPackage() {
			names = append(names, e.Name)
		}
	}
	return names
}

// Enabled returns the names of enabled packages in order
func (lo LoadOrder) Enabled() []string {
	var names []string
	for _, e := range lo {
		if e.State == Enabled {
			names = append(names, e.Name)
		}
	}
	return names
}

// Positions maps each package name to its rank among package entries.
// Separators do not take a rank.
func (lo LoadOrder) Positions() map[string]int {
	pos := make(map[string]int)
	rank := 0
	for _, e := range lo {
		if !e.IsPackage() {
			continue
		}
		if _, seen := pos[e.Name]; !seen {
			pos[e.Name] = rank
			rank++
		}
	}
	return pos
}
