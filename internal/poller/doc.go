// Package poller provides the fetching and timing machinery behind
// eventboard's EventPoller.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeout and size limit
//   - [Scheduler]: runs a [Task] immediately, then on a fixed interval
//   - [Response]: result of a single fetch
//
// Users of the eventboard library should not need to interact with this
// package directly.
package poller
