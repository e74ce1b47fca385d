// Package view layers visual formatting over a document.
//
// A View pairs a caret set with two indexes that reshape the document
// for display: soft breaks introduced by line wrapping, and fold
// regions that hide spans of text. Both indexes are ordered trees, so
// every conversion between logical and visual coordinates costs
// O(log n) in the number of breaks or regions.
//
// # Coordinate spaces
//
// Logical positions address characters in the document. Folded
// positions count only visible characters: each fold region collapses
// its span to a single point, and a logical position inside a hidden
// span maps to that point. Mapping the point back yields the region's
// begin. A visual row is a folded line plus every soft break at or
// before the character.
//
// # Staying current
//
// A view subscribes to its document's bus. After every edit it
// re-bases its carets and fold boundaries through the published fixup
// record and marks itself dirty. Fold line spans are then refreshed
// from the line index by Recount; soft breaks are not patched after an
// edit, the owner recomputes them with Reflow or SetSoftBreaks.
package view
