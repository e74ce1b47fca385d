// Package sumtree implements an ordered sequence held in a height-balanced
// binary tree whose nodes aggregate monoidal summaries bottom-up.
//
// Payloads are addressed by Iterators or located with Find, which descends
// from the root steering on the running prefix summary. Structural edits and
// payload updates re-synthesize summaries along the touched path, so both
// point edits and aggregate queries stay O(log n) in the sequence length.
//
// The summary type S must treat its zero value as the identity of Add.
// Trees are not safe for concurrent use; owners serialize access.
//
// Misuse is a programming error and panics: invalid iterators passed to
// structural operations, iterators from another tree, reversed ranges.
package sumtree
