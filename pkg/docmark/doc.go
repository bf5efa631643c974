// Package docmark converts WordprocessingML documents (DOCX packages) into
// a normalized flat-text rendering in a pandoc-flavoured markdown dialect.
//
// A DOCX file is a ZIP archive of typed XML parts linked by relationships.
// docmark opens the package eagerly, validates every XML part against a
// declarative element schema, and walks the typed tree with a stateful
// renderer that resolves the cross-cutting document features a single
// element cannot decide on its own: field codes (begin/separate/end
// lifecycles), bookmarks and cross-references, list numbering with depth
// normalization, and style-driven heading and code heuristics.
//
// # Usage
//
//	data, err := os.ReadFile("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pkg, err := docmark.OpenPackage(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := docmark.NewRenderer(pkg, docmark.DefaultOptions()).Render()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Markdown)
//
// Structural problems (schema violations, bad attribute values, dangling
// relationships) are fatal and surface as typed errors. Content problems
// (unknown elements, unresolved cross-references) degrade gracefully: the
// render completes and the problems are reported as Diagnostics on the
// Result.
//
// The rendering is lossy by design. It targets a flat text representation,
// not round-trip fidelity, and some constructs are deliberately carried
// through as inline tokens ({{tab}}, {{indent=N}}, {{ref|name}}) rather
// than guessed at.
//
// A Package is read-only after OpenPackage and may be shared across
// concurrent renders. A Renderer holds per-render mutable state and must
// not be shared; create one per render.
package docmark
