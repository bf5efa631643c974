package docmark

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Content types and relationship types this module recognizes. Anything
// else gets the generic XML or binary fallback.
const (
	ContentTypeMainDocument     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles           = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeNumbering        = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ContentTypeFootnotes        = "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"
	ContentTypeEndnotes         = "application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml"
	ContentTypeCoreProperties   = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeCustomProperties = "application/vnd.openxmlformats-officedocument.custom-properties+xml"

	RelTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// Relationship represents a relationship in the package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a specific part name to a content type
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypes represents the [Content_Types].xml registry
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

func (ct *ContentTypes) typeOf(partName string) string {
	slashName := "/" + partName
	for _, o := range ct.Overrides {
		if o.PartName == slashName {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(partName)), ".")
	for _, d := range ct.Defaults {
		if strings.ToLower(d.Extension) == ext {
			return d.ContentType
		}
	}
	return ""
}

// PartKind is the typed role a part plays in the package, decided by the
// dispatch table from its content type and the relationship type used to
// reach it.
type PartKind int

const (
	PartGenericXML PartKind = iota
	PartMainDocument
	PartStyles
	PartNumbering
	PartFootnotes
	PartEndnotes
	PartCoreProperties
	PartCustomProperties
	PartImage
	PartBinary
)

func (k PartKind) String() string {
	switch k {
	case PartGenericXML:
		return "xml"
	case PartMainDocument:
		return "main document"
	case PartStyles:
		return "styles"
	case PartNumbering:
		return "numbering"
	case PartFootnotes:
		return "footnotes"
	case PartEndnotes:
		return "endnotes"
	case PartCoreProperties:
		return "core properties"
	case PartCustomProperties:
		return "custom properties"
	case PartImage:
		return "image"
	case PartBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// partKindTable dispatches a content type to a part kind. Content types
// with no entry fall back to generic XML or binary depending on payload.
var partKindTable = map[string]PartKind{
	ContentTypeMainDocument:     PartMainDocument,
	ContentTypeStyles:           PartStyles,
	ContentTypeNumbering:        PartNumbering,
	ContentTypeFootnotes:        PartFootnotes,
	ContentTypeEndnotes:         PartEndnotes,
	ContentTypeCoreProperties:   PartCoreProperties,
	ContentTypeCustomProperties: PartCustomProperties,
}

// partKindFor implements the (content-type, relationship-type) dispatch:
// the relationship type decides images, the content type decides the rest.
func partKindFor(contentType, relType string) PartKind {
	if relType == RelTypeImage || strings.HasPrefix(contentType, "image/") {
		return PartImage
	}
	if kind, ok := partKindTable[contentType]; ok {
		return kind
	}
	if strings.HasSuffix(contentType, "+xml") || contentType == "application/xml" {
		return PartGenericXML
	}
	return PartBinary
}

// Target is what a relationship points at: another part in the package or
// an external URI.
type Target struct {
	Part     *Part
	URI      string
	External bool
}

// Part is one named, content-typed unit of the package. XML parts own a
// schema-validated root Node; binary parts (images) hold raw bytes.
type Part struct {
	Name        string
	ContentType string
	Kind        PartKind

	root *Node
	data []byte

	rels      map[string]Relationship
	relOrder  []string
	nextRelID int
	pkg       *Package
}

// RootNode returns the part's validated root node, or nil for binary parts.
func (p *Part) RootNode() *Node {
	return p.root
}

// Data returns the raw payload of a binary part.
func (p *Part) Data() []byte {
	return p.data
}

// RelationshipIDs returns the part's relationship ids in registration order.
func (p *Part) RelationshipIDs() []string {
	out := make([]string, len(p.relOrder))
	copy(out, p.relOrder)
	return out
}

// Relationship resolves a relationship id to its target. An id absent from
// the part's mapping, or an internal target naming a part the package does
// not contain, fails with DanglingRelationshipError.
func (p *Part) Relationship(id string) (Target, error) {
	rel, ok := p.rels[id]
	if !ok {
		return Target{}, NewDanglingRelationshipError(p.Name, id)
	}
	if rel.TargetMode == "External" {
		return Target{URI: rel.Target, External: true}, nil
	}
	targetName := resolvePartName(p.Name, rel.Target)
	target, ok := p.pkg.parts[targetName]
	if !ok {
		return Target{}, NewDanglingRelationshipError(p.Name, id)
	}
	return Target{Part: target}, nil
}

// AddRelationship registers a new relationship on the part and returns the
// allocated id.
func (p *Part) AddRelationship(target, relType string, external bool) string {
	for {
		p.nextRelID++
		id := fmt.Sprintf("rId%d", p.nextRelID)
		if _, taken := p.rels[id]; taken {
			continue
		}
		rel := Relationship{ID: id, Type: relType, Target: target}
		if external {
			rel.TargetMode = "External"
		}
		p.rels[id] = rel
		p.relOrder = append(p.relOrder, id)
		return id
	}
}

// resolvePartName resolves a relationship target relative to the directory
// of the owning part. Targets starting with "/" are package-absolute.
func resolvePartName(ownerName, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(ownerName), target))
}

// Package holds the part graph of one opened document. It is read-only
// after OpenPackage and may be shared across concurrent renders.
type Package struct {
	parts        map[string]*Part
	contentTypes *ContentTypes

	mainDocument *Part
	styles       *StylesPart
	numbering    *NumberingPart
	footnotes    *NotesPart
	endnotes     *NotesPart
	coreProps    *Part
	customProps  *CustomPropertiesPart

	logger *Logger
}

// OpenPackage parses a DOCX package from bytes. Parsing is eager: every XML
// part is schema-validated before OpenPackage returns, so corruption
// surfaces here rather than mid-render.
func OpenPackage(data []byte) (*Package, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewPackageError("open", "", err)
	}

	payloads := make(map[string][]byte, len(zipReader.File))
	for _, file := range zipReader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, NewPackageError("open", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewPackageError("read", file.Name, err)
		}
		payloads[file.Name] = content
	}

	ctData, ok := payloads["[Content_Types].xml"]
	if !ok {
		return nil, NewPackageError("open", "[Content_Types].xml", fmt.Errorf("missing content type registry"))
	}
	var contentTypes ContentTypes
	if err := xml.Unmarshal(ctData, &contentTypes); err != nil {
		return nil, NewPackageError("parse", "[Content_Types].xml", err)
	}

	pkg := &Package{
		parts:        make(map[string]*Part),
		contentTypes: &contentTypes,
		logger:       GetLogger(),
	}

	// relationship type used to reach each part, for the dispatch table
	reachedBy := make(map[string]string)
	for name, content := range payloads {
		if !strings.HasSuffix(name, ".rels") {
			continue
		}
		owner := relsOwner(name)
		var rels Relationships
		if err := xml.Unmarshal(content, &rels); err != nil {
			return nil, NewPackageError("parse", name, err)
		}
		for _, rel := range rels.Relationship {
			if rel.TargetMode == "External" {
				continue
			}
			reachedBy[resolvePartName(owner, rel.Target)] = rel.Type
		}
	}

	// instantiate parts
	for name, content := range payloads {
		if name == "[Content_Types].xml" || strings.HasSuffix(name, ".rels") {
			continue
		}
		contentType := contentTypes.typeOf(name)
		kind := partKindFor(contentType, reachedBy[name])
		part := &Part{
			Name:        name,
			ContentType: contentType,
			Kind:        kind,
			rels:        make(map[string]Relationship),
			pkg:         pkg,
		}
		switch kind {
		case PartImage, PartBinary:
			part.data = content
		default:
			root, err := parsePartRoot(name, content, expectedRootTags[kind])
			if err != nil {
				return nil, err
			}
			part.root = root
		}
		pkg.parts[name] = part
	}

	// attach relationships to their owning parts
	for name, content := range payloads {
		if !strings.HasSuffix(name, ".rels") {
			continue
		}
		owner := relsOwner(name)
		if owner == "" {
			// package-level rels have no owning part; targets were already
			// recorded in reachedBy for dispatch
			continue
		}
		part, ok := pkg.parts[owner]
		if !ok {
			continue
		}
		var rels Relationships
		if err := xml.Unmarshal(content, &rels); err != nil {
			return nil, NewPackageError("parse", name, err)
		}
		for _, rel := range rels.Relationship {
			part.rels[rel.ID] = rel
			part.relOrder = append(part.relOrder, rel.ID)
			if n := relIDNumber(rel.ID); n > part.nextRelID {
				part.nextRelID = n
			}
		}
	}

	if err := pkg.bindWellKnownParts(); err != nil {
		return nil, err
	}
	if pkg.mainDocument == nil {
		return nil, NewPackageError("open", "", fmt.Errorf("not a valid DOCX package: no main document part"))
	}

	pkg.logger.Debug("opened package with %d parts", len(pkg.parts))
	return pkg, nil
}

// expectedRootTags maps each typed part kind to the root element it must
// carry. Generic XML parts have no constraint.
var expectedRootTags = map[PartKind]string{
	PartMainDocument:     "w:document",
	PartStyles:           "w:styles",
	PartNumbering:        "w:numbering",
	PartFootnotes:        "w:footnotes",
	PartEndnotes:         "w:endnotes",
	PartCoreProperties:   "cp:coreProperties",
	PartCustomProperties: "cusp:Properties",
}

func parsePartRoot(name string, content []byte, wantRoot string) (*Node, error) {
	el, err := parseElementTree(bytes.NewReader(content))
	if err != nil {
		return nil, NewMalformedPartError(name, "", err)
	}
	if wantRoot != "" && el.Tag != wantRoot {
		return nil, NewMalformedPartError(name, el.Tag,
			fmt.Errorf("root element is %s, want %s", el.Tag, wantRoot))
	}
	node, err := WrapNode(el)
	if err != nil {
		tag := ""
		if sv, ok := err.(*SchemaViolationError); ok {
			tag = sv.Tag
		} else if iv, ok := err.(*InvalidAttributeValueError); ok {
			tag = iv.Tag
		}
		return nil, NewMalformedPartError(name, tag, err)
	}
	return node, nil
}

func (pkg *Package) bindWellKnownParts() error {
	var err error
	for _, part := range pkg.sortedParts() {
		switch part.Kind {
		case PartMainDocument:
			pkg.mainDocument = part
		case PartStyles:
			if pkg.styles, err = newStylesPart(part); err != nil {
				return err
			}
		case PartNumbering:
			if pkg.numbering, err = newNumberingPart(part); err != nil {
				return err
			}
		case PartFootnotes:
			if pkg.footnotes, err = newNotesPart(part, "w:footnote"); err != nil {
				return err
			}
		case PartEndnotes:
			if pkg.endnotes, err = newNotesPart(part, "w:endnote"); err != nil {
				return err
			}
		case PartCoreProperties:
			pkg.coreProps = part
		case PartCustomProperties:
			if pkg.customProps, err = newCustomPropertiesPart(part); err != nil {
				return err
			}
		}
	}

	// synthesize notes parts the package lacks, so note references always
	// have a part to consult
	if pkg.footnotes == nil {
		part, err := pkg.synthesizePart("word/footnotes.xml", ContentTypeFootnotes, PartFootnotes, "w:footnotes")
		if err != nil {
			return err
		}
		if pkg.footnotes, err = newNotesPart(part, "w:footnote"); err != nil {
			return err
		}
	}
	if pkg.endnotes == nil {
		part, err := pkg.synthesizePart("word/endnotes.xml", ContentTypeEndnotes, PartEndnotes, "w:endnotes")
		if err != nil {
			return err
		}
		if pkg.endnotes, err = newNotesPart(part, "w:endnote"); err != nil {
			return err
		}
	}
	return nil
}

func (pkg *Package) synthesizePart(name, contentType string, kind PartKind, rootTag string) (*Part, error) {
	root, err := NewNode(rootTag)
	if err != nil {
		return nil, err
	}
	part := &Part{
		Name:        name,
		ContentType: contentType,
		Kind:        kind,
		root:        root,
		rels:        make(map[string]Relationship),
		pkg:         pkg,
	}
	pkg.parts[name] = part
	pkg.logger.Debug("synthesized default %s part %s", kind, name)
	return part, nil
}

func (pkg *Package) sortedParts() []*Part {
	names := make([]string, 0, len(pkg.parts))
	for name := range pkg.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]*Part, len(names))
	for i, name := range names {
		parts[i] = pkg.parts[name]
	}
	return parts
}

// relsOwner maps a .rels file name to the part it describes; the
// package-level _rels/.rels maps to "".
func relsOwner(relsName string) string {
	dir := path.Dir(relsName) // e.g. word/_rels
	base := strings.TrimSuffix(path.Base(relsName), ".rels")
	parent := path.Dir(dir) // e.g. word
	if dir == "_rels" {
		parent = ""
	}
	if base == "" {
		return ""
	}
	if parent == "" || parent == "." {
		return base
	}
	return parent + "/" + base
}

func relIDNumber(id string) int {
	if !strings.HasPrefix(id, "rId") {
		return 0
	}
	n, err := parseDecimalNumber(strings.TrimPrefix(id, "rId"))
	if err != nil {
		return 0
	}
	return n
}

// Part returns the named part and whether it exists.
func (pkg *Package) Part(name string) (*Part, bool) {
	p, ok := pkg.parts[name]
	return p, ok
}

// PartNames lists every part in the package, sorted.
func (pkg *Package) PartNames() []string {
	names := make([]string, 0, len(pkg.parts))
	for name := range pkg.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MainDocument returns the main document part.
func (pkg *Package) MainDocument() *Part {
	return pkg.mainDocument
}

// Styles returns the styles part, or nil when the package has none.
func (pkg *Package) Styles() *StylesPart {
	return pkg.styles
}

// Numbering returns the numbering part, or nil when the package has none.
func (pkg *Package) Numbering() *NumberingPart {
	return pkg.numbering
}

// Footnotes returns the footnotes part (synthesized when absent).
func (pkg *Package) Footnotes() *NotesPart {
	return pkg.footnotes
}

// Endnotes returns the endnotes part (synthesized when absent).
func (pkg *Package) Endnotes() *NotesPart {
	return pkg.endnotes
}

// CoreProperties returns the core-properties part, or nil.
func (pkg *Package) CoreProperties() *Part {
	return pkg.coreProps
}

// CustomProperties returns the custom-properties part, or nil.
func (pkg *Package) CustomProperties() *CustomPropertiesPart {
	return pkg.customProps
}
