package docmark

import (
	"archive/zip"
	"bytes"
	"testing"
)

// testDoc assembles an in-memory DOCX package for tests. Only the body is
// required; the other parts fall back to small realistic defaults.
type testDoc struct {
	body      string // inner XML of w:body
	styles    string // w:style elements, overriding defaultTestStyles
	numbering string // full numbering part XML, overriding the default
	footnotes string // w:footnote elements; empty means no footnotes part
	endnotes  string // w:endnote elements; empty means no endnotes part
	custom    string // cusp:property elements; empty means no custom part
	core      string // core-properties part XML
	docRels   string // Relationship elements for the document part
}

const defaultTestStyles = `
	<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>
	<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="Heading 1"/></w:style>
	<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="Heading 2"/></w:style>
	<w:style w:type="paragraph" w:styleId="AnnexHeading"><w:name w:val="Annex Heading"/></w:style>
	<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/></w:style>
	<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/></w:style>
	<w:style w:type="paragraph" w:styleId="PlainText"><w:name w:val="Plain Text"/></w:style>
	<w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="Caption"/></w:style>
	<w:style w:type="paragraph" w:styleId="TOC1"><w:name w:val="toc 1"/></w:style>
	<w:style w:type="paragraph" w:styleId="Subheading"><w:name w:val="Subheading"/></w:style>
	<w:style w:type="paragraph" w:styleId="Indented"><w:name w:val="Indented"/><w:pPr><w:ind w:left="720"/></w:pPr></w:style>`

const defaultTestNumbering = `<w:numbering ` + wmlNamespaceDecls + `>
	<w:abstractNum w:abstractNumId="0">
		<w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl>
		<w:lvl w:ilvl="1"><w:numFmt w:val="bullet"/></w:lvl>
		<w:lvl w:ilvl="2"><w:numFmt w:val="bullet"/></w:lvl>
		<w:lvl w:ilvl="3"><w:numFmt w:val="bullet"/></w:lvl>
	</w:abstractNum>
	<w:abstractNum w:abstractNumId="1">
		<w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl>
		<w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/></w:lvl>
	</w:abstractNum>
	<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
	<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

const customPropsNamespaceDecls = `xmlns:cusp="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties" ` +
	`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"`

func (d testDoc) build() []byte {
	styles := d.styles
	if styles == "" {
		styles = defaultTestStyles
	}
	numbering := d.numbering
	if numbering == "" {
		numbering = defaultTestNumbering
	}

	files := map[string]string{
		"word/document.xml": `<w:document ` + wmlNamespaceDecls + `><w:body>` + d.body + `</w:body></w:document>`,
		"word/styles.xml":   `<w:styles ` + wmlNamespaceDecls + `>` + styles + `</w:styles>`,
		"word/numbering.xml": numbering,
		"_rels/.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
	}

	overrides := map[string]string{
		"/word/document.xml":  ContentTypeMainDocument,
		"/word/styles.xml":    ContentTypeStyles,
		"/word/numbering.xml": ContentTypeNumbering,
	}

	if d.footnotes != "" {
		files["word/footnotes.xml"] = `<w:footnotes ` + wmlNamespaceDecls + `>` + d.footnotes + `</w:footnotes>`
		overrides["/word/footnotes.xml"] = ContentTypeFootnotes
	}
	if d.endnotes != "" {
		files["word/endnotes.xml"] = `<w:endnotes ` + wmlNamespaceDecls + `>` + d.endnotes + `</w:endnotes>`
		overrides["/word/endnotes.xml"] = ContentTypeEndnotes
	}
	if d.custom != "" {
		files["docProps/custom.xml"] = `<cusp:Properties ` + customPropsNamespaceDecls + `>` + d.custom + `</cusp:Properties>`
		overrides["/docProps/custom.xml"] = ContentTypeCustomProperties
	}
	if d.core != "" {
		files["docProps/core.xml"] = d.core
		overrides["/docProps/core.xml"] = ContentTypeCoreProperties
	}
	if d.docRels != "" {
		files["word/_rels/document.xml.rels"] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			d.docRels + `</Relationships>`
	}

	ct := `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>`
	for partName, contentType := range overrides {
		ct += `<Override PartName="` + partName + `" ContentType="` + contentType + `"/>`
	}
	ct += `</Types>`
	files["[Content_Types].xml"] = ct

	return zipFiles(files)
}

func zipFiles(files map[string]string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, _ := w.Create(name)
		f.Write([]byte(content))
	}
	w.Close()
	return buf.Bytes()
}

func openTestPackage(t *testing.T, d testDoc) *Package {
	t.Helper()
	pkg, err := OpenPackage(d.build())
	if err != nil {
		t.Fatalf("OpenPackage() error = %v", err)
	}
	return pkg
}

func renderTestDoc(t *testing.T, d testDoc) Result {
	t.Helper()
	result, err := NewRenderer(openTestPackage(t, d), DefaultOptions()).Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return result
}

// para builds a styled paragraph with a single plain run.
func para(styleID, text string) string {
	pPr := ""
	if styleID != "" {
		pPr = `<w:pPr><w:pStyle w:val="` + styleID + `"/></w:pPr>`
	}
	return `<w:p>` + pPr + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// listPara builds a list paragraph with explicit numbering properties.
func listPara(numID, ilvl string, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="ListParagraph"/>` +
		`<w:numPr><w:ilvl w:val="` + ilvl + `"/><w:numId w:val="` + numID + `"/></w:numPr>` +
		`</w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}
