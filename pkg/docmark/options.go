package docmark

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options tunes the style-name heuristics the renderer applies. The zero
// value is not useful; start from DefaultOptions. All style names are
// compared case-insensitively.
type Options struct {
	// ListStyleName is the paragraph style that marks list members.
	// Numbering continuity state resets when a paragraph with any other
	// style is seen.
	ListStyleName string `yaml:"list_style_name"`

	// CodeStyleNames are styles rendered as indented code blocks.
	CodeStyleNames []string `yaml:"code_style_names"`

	// NoBlankLineStyles suppress the blank line between two consecutive
	// paragraphs when both paragraphs' styles are in the set.
	NoBlankLineStyles []string `yaml:"no_blank_line_styles"`

	// DivStyleNames are styles wrapped in a fenced div named after the
	// style.
	DivStyleNames []string `yaml:"div_style_names"`

	// MonospaceFonts are run fonts treated as code spans.
	MonospaceFonts []string `yaml:"monospace_fonts"`
}

func DefaultOptions() Options {
	return Options{
		ListStyleName:     "List Paragraph",
		CodeStyleNames:    []string{"Code", "Plain Text"},
		NoBlankLineStyles: []string{"Code", "List Paragraph", "Plain Text"},
		DivStyleNames:     []string{"Subheading"},
		MonospaceFonts:    []string{"Courier", "Courier New", "Consolas"},
	}
}

// LoadOptionsFile reads renderer options from a YAML file, applying them
// over the defaults. A missing file is not an error; the defaults are
// returned unchanged.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("reading options file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing options file %s: %w", path, err)
	}
	return opts, nil
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
