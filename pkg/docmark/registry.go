package docmark

// renderKind identifies which renderer handles a matched element.
type renderKind int

const (
	kindParagraph renderKind = iota
	kindParagraphProps
	kindRun
	kindRunProps
	kindText
	kindDeletedText
	kindBreak
	kindTab
	kindSymbol
	kindFieldChar
	kindInstrText
	kindSimpleField
	kindHyperlink
	kindBookmarkStart
	kindBookmarkEnd
	kindFootnoteRef
	kindEndnoteRef
	kindInsertedRun
	kindDeletedRun
	kindTable
	kindTableRow
	kindTableCell
	kindDrawing
	kindIgnored
)

type dispatchEntry struct {
	kind renderKind
	// terminal suppresses traversal into the matched subtree: the element
	// is ignored or atomic, never walked.
	terminal bool
}

// dispatchTable maps a qualified element tag to its renderer. It is built
// once by newDispatchTable and never mutated afterwards; every Renderer
// holds one rather than consulting ambient registration state.
type dispatchTable struct {
	entries map[string]dispatchEntry
}

func newDispatchTable() *dispatchTable {
	t := &dispatchTable{entries: make(map[string]dispatchEntry)}
	register := func(tag string, kind renderKind, terminal bool) {
		t.entries[tag] = dispatchEntry{kind: kind, terminal: terminal}
	}

	register("w:p", kindParagraph, false)
	register("w:pPr", kindParagraphProps, true)
	register("w:r", kindRun, false)
	register("w:rPr", kindRunProps, true)
	register("w:t", kindText, false)
	register("w:delText", kindDeletedText, true)
	register("w:br", kindBreak, false)
	register("w:tab", kindTab, false)
	register("w:sym", kindSymbol, false)
	register("w:fldChar", kindFieldChar, false)
	register("w:instrText", kindInstrText, false)
	register("w:fldSimple", kindSimpleField, false)
	register("w:hyperlink", kindHyperlink, false)
	register("w:bookmarkStart", kindBookmarkStart, false)
	register("w:bookmarkEnd", kindBookmarkEnd, false)
	register("w:footnoteReference", kindFootnoteRef, false)
	register("w:endnoteReference", kindEndnoteRef, false)
	register("w:ins", kindInsertedRun, false)
	register("w:del", kindDeletedRun, true)
	register("w:tbl", kindTable, false)
	register("w:tr", kindTableRow, false)
	register("w:tc", kindTableCell, false)
	register("w:drawing", kindDrawing, true)

	// ignored elements; matched so they do not produce diagnostics, but
	// never traversed
	for _, tag := range []string{
		"w:sectPr",
		"w:tblPr",
		"w:tblGrid",
		"w:trPr",
		"w:tcPr",
		"w:object",
		"w:pict",
		"w:proofErr",
		"w:lastRenderedPageBreak",
		"w:noBreakHyphen",
		"w:softHyphen",
		"w:commentRangeStart",
		"w:commentRangeEnd",
		"w:commentReference",
		"mc:AlternateContent",
	} {
		register(tag, kindIgnored, true)
	}

	return t
}

// lookup returns the dispatch entry for a tag and whether one is
// registered. Unregistered tags degrade to a diagnostic stand-in at the
// call site: rendered as empty, reported, traversal continues.
func (t *dispatchTable) lookup(tag string) (dispatchEntry, bool) {
	entry, ok := t.entries[tag]
	return entry, ok
}

// childrenOf returns the traversable children of an element: none when the
// element's own entry is terminal, all of them otherwise.
func (t *dispatchTable) childrenOf(el *Element) []*Element {
	if entry, ok := t.entries[el.Tag]; ok && entry.terminal {
		return nil
	}
	return el.Children
}
