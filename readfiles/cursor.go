package readfiles

import (
	"strings"
)

type EventKind uint8

const (
	EV_MaterialStart EventKind = iota
	EV_ElasticBlock
	EV_ElsetStart
	EV_SolidSection
	EV_Keyword       // Any other keyword line
	EV_Marker        // Comment line
	EV_ElementIDLine // Data line inside an element set
	EV_DataLine      // Any other data line
	EV_Blank
)

func (ek EventKind) String() string {
	return [...]string{"MaterialStart", "ElasticBlock", "ElsetStart", "SolidSection", "Keyword",
		"Marker", "ElementIDLine", "DataLine", "Blank"}[ek]
}

type Event struct {
	Kind     EventKind
	Line     int // Zero based index into MeshFile.Lines
	Text     string
	Keyword  Keyword
	Name     string // Material name, element set name, or the elset of a solid section
	Material string // Material of a solid section
	Generate bool   // Element set given as start, end, step
}

func (ev Event) IsKeyword() bool {
	switch ev.Kind {
	case EV_MaterialStart, EV_ElasticBlock, EV_ElsetStart, EV_SolidSection, EV_Keyword:
		return true
	}
	return false
}

/*
Cursor produces the events of a MeshFile one line at a time. Data lines that
follow an *Elset keyword are reported as element id lines until the next
keyword line; comments and blank lines do not end the set.
*/
type Cursor struct {
	mf      *MeshFile
	pos     int
	inElset bool
}

func (mf *MeshFile) Cursor() *Cursor {
	return &Cursor{mf: mf}
}

func (c *Cursor) Reset() {
	c.pos, c.inElset = 0, false
}

func (c *Cursor) Next() (ev Event, ok bool) {
	if c.pos >= len(c.mf.Lines) {
		return
	}
	ev = c.classify(c.pos, c.mf.Lines[c.pos])
	c.pos++
	return ev, true
}

func (c *Cursor) classify(ind int, line string) (ev Event) {
	ev = Event{Line: ind, Text: line}
	trimmed := strings.TrimSpace(line)
	switch {
	case len(trimmed) == 0:
		ev.Kind = EV_Blank
		return
	case IsComment(trimmed):
		ev.Kind = EV_Marker
		return
	case !IsKeywordLine(trimmed):
		if c.inElset {
			ev.Kind = EV_ElementIDLine
		} else {
			ev.Kind = EV_DataLine
		}
		return
	}
	ev.Keyword, _ = ParseKeyword(trimmed)
	c.inElset = false
	switch ev.Keyword.Name {
	case KW_Material:
		ev.Kind = EV_MaterialStart
		ev.Name, _ = ev.Keyword.Param("name")
	case KW_Elastic:
		ev.Kind = EV_ElasticBlock
	case KW_Elset:
		ev.Kind = EV_ElsetStart
		ev.Name, _ = ev.Keyword.Param("elset")
		ev.Generate = ev.Keyword.Has("generate")
		c.inElset = true
	case KW_SolidSection:
		ev.Kind = EV_SolidSection
		ev.Name, _ = ev.Keyword.Param("elset")
		ev.Material, _ = ev.Keyword.Param("material")
	default:
		ev.Kind = EV_Keyword
	}
	return
}

// Events drains a fresh cursor into a slice
func (mf *MeshFile) Events() (events []Event) {
	c := mf.Cursor()
	events = make([]Event, 0, len(mf.Lines))
	for ev, ok := c.Next(); ok; ev, ok = c.Next() {
		events = append(events, ev)
	}
	return
}
