package docrag

import "io"

// ElementRole identifies the structural role of a document element.
type ElementRole int

// Element roles produced by a Partitioner.
const (
	RoleText ElementRole = iota
	RoleTitle
	RoleNarrativeText
	RoleListItem
	RoleTable
	RoleCode
)

// String returns the role name used in logs.
func (r ElementRole) String() string {
	switch r {
	case RoleTitle:
		return "Title"
	case RoleNarrativeText:
		return "NarrativeText"
	case RoleListItem:
		return "ListItem"
	case RoleTable:
		return "Table"
	case RoleCode:
		return "CodeSnippet"
	case RoleText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Element is an ordered fragment of a partitioned document.
type Element struct {
	Role ElementRole
	Text string

	// Level is the heading depth (1-6) for titles and 0 otherwise.
	Level int
}

// Partitioner splits a document into structural elements in document order.
type Partitioner interface {
	// Partition parses the document read from r. The language is an
	// ISO 639-1 hint for content extraction; empty means detect.
	// Returns EINVALID if the document cannot be parsed.
	Partition(r io.Reader, language string) ([]Element, error)
}
