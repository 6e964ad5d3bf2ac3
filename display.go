package eventboard

// Container is the rendering surface an [EventPoller] writes to.
//
// Replace must discard every entry currently displayed and show entries in
// their place, in order. Entries are plain text: implementations must never
// interpret them as markup. If Replace returns an error, the poll cycle is
// counted as failed.
//
// Replace is called from the poller's scheduler goroutine, never
// concurrently with itself for the same poller.
type Container interface {
	Replace(entries []string) error
}

// ContainerFunc adapts an ordinary function to the [Container] interface.
type ContainerFunc func(entries []string) error

// Replace calls f(entries).
func (f ContainerFunc) Replace(entries []string) error {
	return f(entries)
}
