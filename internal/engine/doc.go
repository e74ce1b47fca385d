// Package engine is the facade over the incremental text engine. It
// re-exports the types and constructors a caller needs to open a
// document, edit it through sessions, and present it through views,
// so most callers import this one package instead of five.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - sumtree: balanced order-statistic tree with monoid summaries
//   - linebreak: line terminator index built on sumtree
//   - text: rune-addressed chunked storage
//   - fixup: position rebasing across committed changes
//   - caret: selections and merged multi-caret sets
//   - history: edit records with linear undo
//   - document: the Document and its Modifier sessions
//   - view: soft breaks, folds, and visual-line mapping
//   - wrap: soft-break offset computation from cell widths
//
// # Sessions
//
// All content changes go through a Modifier. Operations take the
// caller's selections in pre-edit coordinates, left to right, and
// FinishEdit commits them as one undoable record:
//
//	doc := engine.FromString("foo bar foo")
//	m := doc.NewModifier()
//	m.OnText(engine.Span(0, 3), "qux")
//	m.OnText(engine.Span(8, 11), "qux")
//	carets := m.FinishEdit("example")
//	_ = carets // one caret after each replacement
//
// # Views
//
// A View subscribes to its document and keeps soft breaks, folds, and
// carets current across edits:
//
//	v := engine.NewView(doc)
//	defer v.Close()
//	v.Reflow(80)
//	row := v.VisualLine(v.Carets().Primary().Head)
//	_ = row
//
// # Concurrency
//
// Documents and views are not safe for concurrent use. Callers that
// edit from more than one goroutine serialize on their own lock or
// funnel edits through one goroutine.
package engine
