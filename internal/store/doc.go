// Package store holds the current contents of the dashboard's display
// container.
//
// The main components are:
//
//   - [Store]: Interface defining replace, snapshot, and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Snapshot]: The rendered entries of the last successful poll
//
// A MemoryStore is the display container the EventPoller renders into when
// eventboard runs as a dashboard. Each replace swaps the whole entry list;
// nothing is merged or diffed across polls.
package store
