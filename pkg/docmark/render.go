package docmark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Result is the outcome of one rendering pass: the flat markdown text and
// every diagnostic raised along the way. Diagnostics are data, not errors;
// unknown markup degrades to silence so one unsupported construct cannot
// abort rendering of an entire document.
type Result struct {
	Markdown    string
	Diagnostics []Diagnostic
}

// Renderer converts an opened package's main document into flat markdown.
// A Renderer is cheap to construct and holds no per-pass state; each call
// to Render builds its own renderState, so one Renderer may serve
// sequential renders but a single call must not be shared across
// goroutines with another in flight.
type Renderer struct {
	pkg      *Package
	opts     Options
	dispatch *dispatchTable
	logger   *Logger
}

func NewRenderer(pkg *Package, opts Options) *Renderer {
	return &Renderer{
		pkg:      pkg,
		opts:     opts,
		dispatch: newDispatchTable(),
		logger:   GetLogger().WithField("component", "renderer"),
	}
}

// RenderDocument opens the package bytes and renders the main document in
// one step, with default options applied where opts is the zero value.
func RenderDocument(data []byte, opts Options) (Result, error) {
	if opts.ListStyleName == "" {
		opts = DefaultOptions()
	}
	pkg, err := OpenPackage(data)
	if err != nil {
		return Result{}, err
	}
	return NewRenderer(pkg, opts).Render()
}

// renderState carries the traversal state that crosses paragraph
// boundaries: the previous paragraph's style (blank-line suppression),
// numbering continuity, and the document's bookmark registry. One
// renderState per Render call, never shared.
type renderState struct {
	prevStyleName string
	numbering     numberingState
	savedNumPr    *Element
	bookmarks     *BookmarkRegistry
	diags         []Diagnostic
}

func newRenderState() *renderState {
	return &renderState{
		numbering: newNumberingState(),
		bookmarks: NewBookmarkRegistry(),
	}
}

func (st *renderState) report(d *Diagnostic) {
	if d != nil {
		st.diags = append(st.diags, *d)
	}
}

// Render walks the main document body in document order and returns the
// rendered markdown. Bookmarks are collected in a first pass over the
// tree so cross-references that precede their definition still resolve;
// the rendered output is then checked for reference tokens that match no
// registered bookmark.
func (r *Renderer) Render() (Result, error) {
	st := newRenderState()
	doc := r.pkg.MainDocument()
	body := doc.RootNode().Child("w:body")

	r.collectBookmarks(body, st)

	var out strings.Builder
	for _, block := range body.Children {
		entry, ok := r.dispatch.lookup(block.Tag)
		if !ok {
			st.report(&Diagnostic{Kind: DiagUnmatchedElement, Subject: block.Tag})
			r.logger.Debug("unmatched block element %s", block.Tag)
			continue
		}
		switch entry.kind {
		case kindParagraph:
			text, keep, err := r.renderParagraph(block, st)
			if err != nil {
				return Result{}, err
			}
			if keep {
				out.WriteString(text)
				out.WriteString("\n")
			}
		case kindTable:
			text, err := r.renderTable(block, st)
			if err != nil {
				return Result{}, err
			}
			out.WriteString(text)
		}
	}

	markdown := strings.TrimLeft(out.String(), "\n")
	if markdown != "" && !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	r.checkReferences(markdown, st)

	return Result{Markdown: markdown, Diagnostics: st.diags}, nil
}

func (r *Renderer) collectBookmarks(el *Element, st *renderState) {
	if el.Tag == "w:bookmarkStart" {
		if name, ok := el.Attr("w:name"); ok {
			st.report(st.bookmarks.Register(name, el))
		}
	}
	for _, c := range r.dispatch.childrenOf(el) {
		r.collectBookmarks(c, st)
	}
}

var refTokenRE = regexp.MustCompile(`\{\{ref\|([^{}|]+)\}\}`)

// checkReferences resolves every reference token in the completed output
// against the bookmark registry. Run after rendering so forward
// references are no different from backward ones.
func (r *Renderer) checkReferences(markdown string, st *renderState) {
	seen := make(map[string]bool)
	for _, m := range refTokenRE.FindAllStringSubmatch(markdown, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := st.bookmarks.Resolve(name); !ok {
			st.report(&Diagnostic{Kind: DiagUnresolvedBookmark, Subject: name})
		}
	}
}

var headingStyleRE = regexp.MustCompile(`^(Heading|Annex|Appendix)\s*(\d+|Heading)`)

// levelAndSpecial derives the heading depth from the style name. The
// plain `Annex Heading` and `Appendix Heading` forms are depth 1 and
// carry their family as a CSS class so downstream numbering can restart.
func levelAndSpecial(styleName string) (int, string) {
	m := headingStyleRE.FindStringSubmatch(styleName)
	if m == nil {
		return 0, ""
	}
	level := 1
	if m[2] != "Heading" {
		level, _ = strconv.Atoi(m[2])
	}
	special := ""
	if (m[1] == "Annex" || m[1] == "Appendix") && level == 1 {
		special = strings.ToLower(m[1])
	}
	return level, special
}

// renderParagraph renders one w:p element. The returned bool is false when
// the paragraph is discarded (generated ToC content, effectively empty);
// previous-style state is still updated in that case so blank-line
// suppression stays correct across the gap.
func (r *Renderer) renderParagraph(p *Element, st *renderState) (string, bool, error) {
	pPr := p.Child("w:pPr")
	styleName := r.paragraphStyleName(pPr)
	lower := strings.ToLower(styleName)

	text := ""
	useDiv := containsFold(r.opts.DivStyleNames, styleName)
	if useDiv {
		text += "\n:::::: " + strings.ReplaceAll(lower, " ", "-") + " ::::::\n"
	}

	fm := newFieldMachine()
	fm.HandleText(r.paragraphPrefix(pPr, styleName, st), &text)

	values, err := r.inlineValues(p, st)
	if err != nil {
		return "", false, err
	}
	pageBreak := false
	applyValues(values, fm, &text, &pageBreak, st)

	indent := r.indentToken(pPr, styleName)
	if containsFold(r.opts.CodeStyleNames, styleName) {
		// naive code block: four literal spaces
		text = "    " + indent + text
	} else if strings.HasPrefix(text, "{{tab}}") || indent != "" {
		if !strings.EqualFold(styleName, r.opts.ListStyleName) {
			text = indent + text
		}
	} else if pPr != nil {
		text = strings.TrimRight(text, " \t\n") + markdownSuffix(pPr, styleName)
	}

	text = collapseEmphasis(text)
	if lower == "caption" {
		text = rewriteCaption(text)
	}

	if pageBreak {
		nl := "\n"
		if strings.TrimSpace(text) == "" {
			nl = ""
		}
		text = "::: new-page :::\n:::" + nl + text
	}

	if useDiv {
		text += "\n::::::"
	} else if !containsFold(r.opts.NoBlankLineStyles, st.prevStyleName) ||
		!containsFold(r.opts.NoBlankLineStyles, styleName) {
		text = "\n" + text
	}

	// updated even for discarded paragraphs
	st.prevStyleName = styleName

	if isDiscardedStyle(lower) {
		return "", false, nil
	}
	if isEffectivelyEmpty(text) {
		return "", false, nil
	}
	return text, true, nil
}

func (r *Renderer) paragraphStyleName(pPr *Element) string {
	styles := r.pkg.Styles()
	if styles == nil {
		return ""
	}
	styleID := ""
	if pPr != nil {
		if ps := pPr.Child("w:pStyle"); ps != nil {
			styleID, _ = ps.Attr("w:val")
		}
	}
	return styles.StyleName(styleID)
}

// paragraphPrefix computes the heading or list marker for a paragraph.
// Numbering properties default to the previous list paragraph's when
// absent, until a paragraph outside the list style breaks the chain.
func (r *Renderer) paragraphPrefix(pPr *Element, styleName string, st *renderState) string {
	if !strings.EqualFold(styleName, r.opts.ListStyleName) {
		st.savedNumPr = nil
		st.numbering.reset()
	}

	if level, _ := levelAndSpecial(styleName); level > 0 {
		return strings.Repeat("#", level) + " "
	}

	var numPr *Element
	if pPr != nil {
		numPr = pPr.Child("w:numPr")
	}
	if numPr == nil {
		numPr = st.savedNumPr
		if numPr == nil {
			return ""
		}
	}
	st.savedNumPr = numPr

	// numId zero means no numbering; markdownSuffix adds the class
	numID := intVal(numPr.Child("w:numId"), 0)
	ilvl := intVal(numPr.Child("w:ilvl"), 0)
	if numID == 0 {
		return ""
	}
	numbering := r.pkg.Numbering()
	if numbering == nil {
		return ""
	}
	numFmt, ok := numbering.FormatFor(numID, ilvl)
	if !ok {
		return ""
	}

	// the raw level cannot be trusted: authors use the wrong level and
	// override the indent, so derive the actual depth from transitions
	depth := st.numbering.normalize(ilvl)

	prefix := "#. "
	if numFmt == NumFormatBullet {
		prefix = "* "
	}
	return strings.Repeat("    ", depth) + prefix
}

func markdownSuffix(pPr *Element, styleName string) string {
	if pPr == nil {
		return ""
	}
	var classes []string
	if _, special := levelAndSpecial(styleName); special != "" {
		classes = append(classes, special)
	}
	if numPr := pPr.Child("w:numPr"); numPr != nil {
		if intVal(numPr.Child("w:numId"), -1) == 0 {
			classes = append(classes, "unnumbered")
		}
	}
	if len(classes) == 0 {
		return ""
	}
	for i := range classes {
		classes[i] = "." + classes[i]
	}
	return " {" + strings.Join(classes, " ") + "}"
}

// indentToken converts the effective left plus first-line indent into an
// {{indent=N}} token. The 180 twips per space constant is heuristic,
// chosen so tab stops and indents come out about the same width.
func (r *Renderer) indentToken(pPr *Element, styleName string) string {
	format := ParagraphFormat{}
	if styles := r.pkg.Styles(); styles != nil {
		styleID := ""
		if pPr != nil {
			if ps := pPr.Child("w:pStyle"); ps != nil {
				styleID, _ = ps.Attr("w:val")
			}
		}
		format = styles.EffectiveFormat(styleID)
	}
	if pPr != nil {
		own := parseIndents(pPr.Child("w:ind"))
		if own.LeftIndent != nil {
			format.LeftIndent = own.LeftIndent
		}
		if own.FirstLineIndent != nil {
			format.FirstLineIndent = own.FirstLineIndent
		}
	}
	total := 0
	if format.LeftIndent != nil {
		total += *format.LeftIndent
	}
	if format.FirstLineIndent != nil {
		total += *format.FirstLineIndent
	}
	spaces := int(float64(total)/180.0 + 0.5)
	if spaces == 0 {
		return ""
	}
	return fmt.Sprintf("{{indent=%d}}", spaces)
}

// inlineValue is one item of a paragraph's flattened content stream:
// plain text, a field marker, instruction text, or a page break, in
// document order. Field markers must reach the state machine as events
// rather than text, which is why runs flatten to a value list instead of
// a string.
type inlineKind int

const (
	inlineText inlineKind = iota
	inlineFieldChar
	inlineInstr
	inlineBookmark
	inlinePageBreak
)

type inlineValue struct {
	kind inlineKind
	text string
}

func applyValues(values []inlineValue, fm *fieldMachine, text *string, pageBreak *bool, st *renderState) {
	for _, v := range values {
		switch v.kind {
		case inlineFieldChar:
			fm.HandleChar(v.text, text)
		case inlineInstr:
			st.report(fm.HandleInstr(v.text, text))
		case inlinePageBreak:
			*pageBreak = true
		case inlineBookmark:
			// registered during the bookmark pass
		default:
			fm.HandleText(v.text, text)
		}
	}
}

// inlineValues flattens a paragraph-level container into the content
// stream. Unregistered tags are substituted by nothing and reported, and
// traversal continues with the next sibling.
func (r *Renderer) inlineValues(parent *Element, st *renderState) ([]inlineValue, error) {
	var values []inlineValue
	for _, child := range parent.Children {
		entry, ok := r.dispatch.lookup(child.Tag)
		if !ok {
			st.report(&Diagnostic{Kind: DiagUnmatchedElement, Subject: child.Tag})
			r.logger.Debug("unmatched inline element %s", child.Tag)
			continue
		}
		switch entry.kind {
		case kindRun:
			vals, err := r.runValues(child, st)
			if err != nil {
				return nil, err
			}
			values = append(values, vals...)
		case kindInsertedRun:
			vals, err := r.inlineValues(child, st)
			if err != nil {
				return nil, err
			}
			values = append(values, vals...)
		case kindHyperlink:
			text, err := r.hyperlinkText(child)
			if err != nil {
				return nil, err
			}
			values = append(values, inlineValue{kind: inlineText, text: text})
		case kindSimpleField:
			values = append(values, simpleFieldValues(child)...)
		case kindBookmarkStart, kindBookmarkEnd:
			values = append(values, inlineValue{kind: inlineBookmark})
		}
	}
	return values, nil
}

// simpleFieldValues expands a w:fldSimple into the equivalent field-code
// span, with the element's run content standing in for the cached result.
func simpleFieldValues(fld *Element) []inlineValue {
	instr, _ := fld.Attr("w:instr")
	cached := ""
	for _, run := range fld.ChildrenByTag("w:r") {
		for _, t := range run.ChildrenByTag("w:t") {
			cached += t.Text
		}
	}
	return []inlineValue{
		{kind: inlineFieldChar, text: "begin"},
		{kind: inlineInstr, text: instr},
		{kind: inlineFieldChar, text: "separate"},
		{kind: inlineText, text: cached},
		{kind: inlineFieldChar, text: "end"},
	}
}

func (r *Renderer) hyperlinkText(link *Element) (string, error) {
	label := ""
	for _, run := range link.ChildrenByTag("w:r") {
		for _, t := range run.ChildrenByTag("w:t") {
			label += t.Text
		}
	}
	if anchor, ok := link.Attr("w:anchor"); ok {
		return "[" + label + "](#" + anchor + ")", nil
	}
	id, ok := link.Attr("r:id")
	if !ok {
		return label, nil
	}
	target, err := r.pkg.MainDocument().Relationship(id)
	if err != nil {
		return "", err
	}
	uri := target.URI
	if !target.External && target.Part != nil {
		uri = target.Part.Name
	}
	return "[" + label + "](" + uri + ")", nil
}

// runValues flattens one run. Emphasis is emitted as paired tokens around
// the run content and folded into markdown by the cleanup pass, which
// also merges marks split across adjacent runs.
func (r *Renderer) runValues(run *Element, st *renderState) ([]inlineValue, error) {
	var values []inlineValue
	for _, child := range run.Children {
		entry, ok := r.dispatch.lookup(child.Tag)
		if !ok {
			st.report(&Diagnostic{Kind: DiagUnmatchedElement, Subject: child.Tag})
			r.logger.Debug("unmatched run element %s", child.Tag)
			continue
		}
		switch entry.kind {
		case kindText:
			values = append(values, inlineValue{kind: inlineText, text: child.Text})
		case kindBreak:
			if breakType, _ := child.Attr("w:type"); breakType == "page" {
				values = append(values, inlineValue{kind: inlinePageBreak})
			} else {
				values = append(values, inlineValue{kind: inlineText, text: "\n"})
			}
		case kindTab:
			values = append(values, inlineValue{kind: inlineText, text: "{{tab}}"})
		case kindSymbol:
			font, _ := child.Attr("w:font")
			char, _ := child.Attr("w:char")
			values = append(values, inlineValue{
				kind: inlineText,
				text: fmt.Sprintf("{{symbolChar|font=%s|char=%s}}", font, char),
			})
		case kindFieldChar:
			charType, _ := child.Attr("w:fldCharType")
			values = append(values, inlineValue{kind: inlineFieldChar, text: charType})
		case kindInstrText:
			values = append(values, inlineValue{kind: inlineInstr, text: child.Text})
		case kindFootnoteRef:
			values = append(values, inlineValue{kind: inlineText, text: r.footnoteText(child, st)})
		case kindEndnoteRef:
			values = append(values, inlineValue{
				kind: inlineText,
				text: fmt.Sprintf("{{endnote=%d}}", intAttrOr(child, "w:id", 0)),
			})
		case kindDrawing:
			values = append(values, inlineValue{kind: inlineText, text: "{{drawing}}"})
		}
	}

	if mark := r.runMark(run.Child("w:rPr")); mark != "" && hasTextValue(values) {
		open := inlineValue{kind: inlineText, text: "{{" + mark + "}}"}
		closing := inlineValue{kind: inlineText, text: "{{end" + mark + "}}"}
		values = append([]inlineValue{open}, append(values, closing)...)
	}
	return values, nil
}

func hasTextValue(values []inlineValue) bool {
	for _, v := range values {
		if v.kind == inlineText && v.text != "" {
			return true
		}
	}
	return false
}

// runMark picks the emphasis token for a run's properties: monospace
// fonts win over bold and italic because code spans cannot nest markup.
func (r *Renderer) runMark(rPr *Element) string {
	if rPr == nil {
		return ""
	}
	if fonts := rPr.Child("w:rFonts"); fonts != nil {
		name, ok := fonts.Attr("w:ascii")
		if !ok {
			name, _ = fonts.Attr("w:hAnsi")
		}
		if containsFold(r.opts.MonospaceFonts, name) && name != "" {
			return "c"
		}
	}
	bold := onOffChild(rPr, "w:b")
	italic := onOffChild(rPr, "w:i")
	switch {
	case bold && italic:
		return "B"
	case bold:
		return "b"
	case italic:
		return "i"
	default:
		return ""
	}
}

// onOffChild reports whether a toggle child is present and on; a bare
// element with no w:val means on.
func onOffChild(parent *Element, tag string) bool {
	el := parent.Child(tag)
	if el == nil {
		return false
	}
	raw, ok := el.Attr("w:val")
	if !ok {
		return true
	}
	on, err := parseOnOff(raw)
	if err != nil {
		return false
	}
	return on
}

// footnoteText renders the referenced footnote's body inline.
func (r *Renderer) footnoteText(ref *Element, st *renderState) string {
	id := intAttrOr(ref, "w:id", 0)
	notes := r.pkg.Footnotes()
	if notes == nil {
		return ""
	}
	note, ok := notes.Note(id)
	if !ok {
		st.report(&Diagnostic{Kind: DiagUnmatchedElement, Subject: fmt.Sprintf("w:footnoteReference[%d]", id)})
		return ""
	}
	var parts []string
	for _, p := range note.Body {
		text := ""
		fm := newFieldMachine()
		values, err := r.inlineValues(p, st)
		if err != nil {
			continue
		}
		pageBreak := false
		applyValues(values, fm, &text, &pageBreak, st)
		text = strings.TrimSpace(collapseEmphasis(text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return "^[" + strings.Join(parts, " ") + "]"
}

// renderTable renders a table as pandoc pipe rows, with a header
// separator after the first row. Table content breaks list continuity
// like any non-list paragraph would.
func (r *Renderer) renderTable(tbl *Element, st *renderState) (string, error) {
	var b strings.Builder
	b.WriteString("\n")
	rows := tbl.ChildrenByTag("w:tr")
	for i, row := range rows {
		cells := row.ChildrenByTag("w:tc")
		b.WriteString("|")
		for _, cell := range cells {
			text, err := r.cellText(cell, st)
			if err != nil {
				return "", err
			}
			b.WriteString(" " + text + " |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for range cells {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}

	st.prevStyleName = ""
	st.savedNumPr = nil
	st.numbering.reset()
	return b.String(), nil
}

func (r *Renderer) cellText(cell *Element, st *renderState) (string, error) {
	var parts []string
	for _, p := range cell.ChildrenByTag("w:p") {
		text := ""
		fm := newFieldMachine()
		values, err := r.inlineValues(p, st)
		if err != nil {
			return "", err
		}
		pageBreak := false
		applyValues(values, fm, &text, &pageBreak, st)
		text = strings.TrimSpace(collapseEmphasis(text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func intVal(el *Element, missing int) int {
	if el == nil {
		return missing
	}
	return intAttrOr(el, "w:val", missing)
}

func intAttrOr(el *Element, name string, missing int) int {
	raw, ok := el.Attr(name)
	if !ok {
		return missing
	}
	n, err := parseDecimalNumber(raw)
	if err != nil {
		return missing
	}
	return n
}
