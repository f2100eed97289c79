// Package notify carries post-mutation session snapshots to whoever
// broadcasts them.
//
// The game core only produces Events; a Notifier decides what delivery means.
// Hub delivers in-process to stream subscribers, the sqlite Journal records
// them, and Fanout feeds several notifiers at once.
package notify
