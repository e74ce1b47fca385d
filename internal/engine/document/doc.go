// Package document owns editable text: character storage and the line
// index updated as one unit, the undo history, style metadata, and the
// notification bus views subscribe to.
//
// # Sessions
//
// All interactive editing flows through a Modifier session. A session
// receives one operation per caret, in increasing position order,
// re-bases each position over the edits already applied in the same
// session, and commits them as a single undo unit:
//
//	m := doc.NewModifier()
//	for _, sel := range carets.All() {
//		m.OnText(sel, "x")
//	}
//	carets = m.FinishEdit("keyboard")
//
// At most one session may be open per document; opening a second or
// editing through a finished session panics.
//
// # Undo and redo
//
// Undo replays the newest record inverted, re-basing each stored
// position over the inverses already applied. Redo replays the record
// verbatim, positions already being in application order. Both return
// the caret set captured on the matching side of the original edit, and
// both panic when no record is available.
//
// # Notifications
//
// Committing a session with at least one modification publishes
// TopicModified with the session's fixup record and aggregate stats.
// Changes that affect rendering but not content, such as tab width or
// style ranges, publish TopicVisual.
package document
