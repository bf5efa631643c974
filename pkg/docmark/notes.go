package docmark

// Note is one footnote or endnote definition: its id and the block
// elements of its body. Separator and continuation-separator notes carry a
// Type and are not real content.
type Note struct {
	ID   int
	Type string
	Body []*Element
}

// IsSeparator reports whether the note is machinery (separator or
// continuation separator) rather than authored content.
func (n *Note) IsSeparator() bool {
	return n.Type == "separator" || n.Type == "continuationSeparator"
}

// NotesPart wraps a footnotes or endnotes part, exposing the ordered note
// definitions. When a package lacks the part, a default one is synthesized
// from the schema template so references always have somewhere to look.
type NotesPart struct {
	part  *Part
	notes []Note
	byID  map[int]int // note id -> index into notes
}

func newNotesPart(part *Part, noteTag string) (*NotesPart, error) {
	np := &NotesPart{
		part: part,
		byID: make(map[int]int),
	}

	root := part.RootNode()
	if root == nil {
		return np, nil
	}
	for _, el := range root.Element().ChildrenByTag(noteTag) {
		node, err := WrapNode(el)
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		id, err := node.IntAttr("w:id")
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		noteType, _ := node.Attr("w:type")
		note := Note{
			ID:   id,
			Type: noteType,
			Body: el.ChildrenByTag("w:p"),
		}
		np.byID[id] = len(np.notes)
		np.notes = append(np.notes, note)
	}

	return np, nil
}

// Notes returns every note definition in document order.
func (np *NotesPart) Notes() []Note {
	return np.notes
}

// Note returns the note with the given id.
func (np *NotesPart) Note(id int) (*Note, bool) {
	idx, ok := np.byID[id]
	if !ok {
		return nil, false
	}
	return &np.notes[idx], true
}
