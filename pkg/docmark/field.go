package docmark

import (
	"regexp"
	"strings"
)

// fieldState tracks where we are in a begin/separate/end field span.
type fieldState int

const (
	fieldOuter fieldState = iota
	fieldBegin
	fieldSeparate
	fieldEnd
)

func (s fieldState) String() string {
	switch s {
	case fieldBegin:
		return "begin"
	case fieldSeparate:
		return "separate"
	case fieldEnd:
		return "end"
	default:
		return "outer"
	}
}

var nonAlphanumRE = regexp.MustCompile(`[^A-Za-z0-9]+`)

// mapFieldName converts a property or sequence name to its placeholder
// form: every run of non-alphanumeric characters becomes a single
// underscore, so `Document "Short Title"` and `Document Short Title` map
// to the same token.
func mapFieldName(name string) string {
	return nonAlphanumRE.ReplaceAllString(name, "_")
}

// fieldMachine implements the field-code lifecycle for one paragraph.
// Fields are bracketed by fldChar begin/separate/end markers; instruction
// text between begin and separate carries the verb, run text between
// separate and end carries the cached result. Text seen in the begin
// phase is preferred over the cached result, tracked by addedBeginText.
//
// The machine appends to (and occasionally trims) the caller's paragraph
// buffer rather than owning one, because field output interleaves with
// ordinary run text.
type fieldMachine struct {
	state           fieldState
	words           []string
	anchor          string
	addedBeginText  bool
	openBracket     bool
	reportedUnknown bool
}

func newFieldMachine() *fieldMachine {
	return &fieldMachine{state: fieldOuter}
}

// HandleChar processes a fldChar marker. On end it settles the bracket
// opened for a REF verb: an unclosed `[` with no following text is
// retracted, otherwise `]` closes it, and the `{{ref|...}}` anchor is
// appended after the bracketed span.
func (m *fieldMachine) HandleChar(charType string, text *string) {
	switch charType {
	case "begin":
		m.state = fieldBegin
		m.words = nil
		m.anchor = ""
		m.openBracket = false
		m.addedBeginText = false
		m.reportedUnknown = false
	case "separate":
		m.state = fieldSeparate
	case "end":
		m.state = fieldEnd
		if m.openBracket {
			if strings.HasSuffix(*text, "[") {
				*text = (*text)[:len(*text)-1]
			} else {
				*text += "]"
			}
		}
		if m.anchor != "" {
			*text += "[" + m.anchor + "]"
		}
	}
}

// HandleInstr accumulates instruction text and acts on the verb once at
// least one argument is available. An instruction split across several
// instrText runs builds up one word list, so the verb may only become
// actionable on a later call.
func (m *fieldMachine) HandleInstr(instr string, text *string) *Diagnostic {
	m.words = append(m.words, strings.Fields(strings.TrimSpace(instr))...)
	if len(m.words) <= 1 {
		return nil
	}
	switch m.words[0] {
	case "DOCPROPERTY":
		if m.state != fieldSeparate || !m.addedBeginText {
			name := strings.Trim(m.words[1], `"`)
			*text += "%" + mapFieldName(name) + "%"
		}
		if m.state == fieldBegin {
			m.addedBeginText = true
		}
	case "SEQ":
		if m.state != fieldSeparate || !m.addedBeginText {
			*text += "%seq_" + mapFieldName(m.words[1]) + "%"
		}
		if m.state == fieldBegin {
			m.addedBeginText = true
		}
	case "REF":
		if m.anchor == "" {
			if !m.openBracket {
				*text += "["
				m.openBracket = true
			}
			m.anchor = "{{ref|" + m.words[1] + "}}"
		}
	default:
		if !m.reportedUnknown {
			m.reportedUnknown = true
			return &Diagnostic{Kind: DiagUnknownFieldVerb, Subject: m.words[0]}
		}
	}
	return nil
}

// HandleText processes ordinary run text subject to the field state:
// cached (separate-phase) text is suppressed when the begin phase already
// produced text.
func (m *fieldMachine) HandleText(val string, text *string) {
	if m.state != fieldSeparate || !m.addedBeginText {
		*text += val
	}
	if m.state == fieldBegin && strings.TrimSpace(val) != "" {
		m.addedBeginText = true
	}
}

// InField reports whether a begin marker has been seen without its end,
// meaning run text currently belongs to a field span.
func (m *fieldMachine) InField() bool {
	return m.state == fieldBegin || m.state == fieldSeparate
}
