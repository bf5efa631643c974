package docmark

import (
	"regexp"
	"strings"
)

// emphasisMark pairs an inline token character with its markdown
// substitution. Order matters: code spans collapse before italic so that
// `{{c}}` inside `{{i}}` pairs resolves deterministically.
type emphasisMark struct {
	ch   string
	md   string
	span *regexp.Regexp
}

var emphasisMarks = buildEmphasisMarks()

func buildEmphasisMarks() []emphasisMark {
	marks := []emphasisMark{
		{ch: "c", md: "`"},
		{ch: "i", md: "*"},
		{ch: "b", md: "**"},
		{ch: "B", md: "***"},
	}
	for i := range marks {
		ch := marks[i].ch
		marks[i].span = regexp.MustCompile(
			`(\{\{` + ch + `\}\})(\s*)(.*?)(\s*)(\{\{end` + ch + `\}\})`)
	}
	return marks
}

// collapseEmphasis folds the run-level emphasis tokens into markdown. For
// each mark it drops adjacent close/open pairs, moves whitespace that is
// inside a span to the outside, drops empty spans and finally substitutes
// the markdown characters. The result contains no emphasis tokens, so a
// second application is a no-op.
func collapseEmphasis(text string) string {
	for _, mark := range emphasisMarks {
		text = strings.ReplaceAll(text, "{{end"+mark.ch+"}}{{"+mark.ch+"}}", "")
		text = mark.span.ReplaceAllString(text, "$2$1$3$5$4")
		text = strings.ReplaceAll(text, "{{"+mark.ch+"}}{{end"+mark.ch+"}}", "")
		text = strings.ReplaceAll(text, "{{"+mark.ch+"}}", mark.md)
		text = strings.ReplaceAll(text, "{{end"+mark.ch+"}}", mark.md)
	}
	return text
}

// Caption paragraphs open with the label Word generated for the figure or
// table. The optional digits on either side of the sequence placeholder
// absorb stray numbers left by extra field codes such as STYLEREF.
var (
	figureCaptionRE = regexp.MustCompile(`Figure \d*(?:%\w+%)?\d*\W+(.*)`)
	tableCaptionRE  = regexp.MustCompile(`Table \d*%\w+%\d*\W+`)
)

// rewriteCaption converts Word caption labels to the pandoc forms: figure
// captions become image references and table captions become `:` caption
// lines.
func rewriteCaption(text string) string {
	text = figureCaptionRE.ReplaceAllString(text, `![$1](missing.png)`)
	text = tableCaptionRE.ReplaceAllString(text, ":")
	return text
}

var inlineTokenRE = regexp.MustCompile(`\{\{\w+(=.+?)?\}\}\s*`)

// isEffectivelyEmpty reports whether a paragraph contains nothing but
// whitespace and inline tokens such as {{tab}} or {{indent=2}}. Such
// paragraphs are discarded; people abuse empty paragraphs as a substitute
// for after-paragraph spacing.
func isEffectivelyEmpty(text string) bool {
	return strings.TrimSpace(inlineTokenRE.ReplaceAllString(text, "")) == ""
}

var tocStyleRE = regexp.MustCompile(`^(toc \d+|table of figures)`)

// isDiscardedStyle reports whether a lower-cased style name marks a
// generated paragraph (table of contents, table of figures) that should
// not appear in the output.
func isDiscardedStyle(styleName string) bool {
	return tocStyleRE.MatchString(styleName)
}
