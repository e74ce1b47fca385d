// Package history stores the linear undo history of a document.
//
// # Records
//
// A Record is one undo unit: the ordered list of modifications applied
// in one editing session, typically one per caret. Each Modification
// remembers the text it removed and added, its position in the evolving
// document, and the caret shape before and after. A Record can derive
// the fixup list other position holders re-base through, and can invert
// itself for undo.
//
// # Linear history
//
// History is a list of records plus a cursor separating undone from
// not-yet-undone records. Appending after an undo truncates the redo
// tail. StepBack and StepForward only move the cursor and hand the
// record back; replaying it against the document is the caller's job.
//
// Calling StepBack or StepForward when CanUndo or CanRedo is false is a
// programming error and panics.
package history
