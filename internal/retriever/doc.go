// Package retriever runs the background worker that fetches the current
// user's stories and tasks from a service.Source.
//
// A Retriever owns exactly one goroutine. Callers trigger a cycle with
// RequestFetch; triggers that arrive before the worker wakes are coalesced
// into a single cycle. Each cycle publishes either a *service.ResultSet to
// the OnWorkitemsReady handlers or an error to the OnFetchError handlers,
// never both. Handlers run on the worker goroutine, so consumers that own
// another execution context (a UI loop, a command's main goroutine) must
// hand results over themselves.
//
// Shutdown stops the loop. A cycle already in flight still completes and
// publishes; no further cycles run afterwards.
package retriever
