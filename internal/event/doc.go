// Package event carries notifications between the engine and its views.
//
// The bus is deliberately small: subscribers are plain closures invoked
// synchronously, in subscription order, on the publisher's goroutine.
// A document publishes after a commit completes, so by the time a
// handler runs the document already reflects the change.
//
// Topics are hierarchical dot-separated names such as
// "document.modified". Subscribing to a topic also delivers its
// descendants, so "document" receives both "document.modified" and
// "document.visual".
package event
