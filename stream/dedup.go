package stream

import (
	"sync"

	"github.com/finlight/finlight-go/pkg/buffer"
)

// dedupCapacity is the fixed size of the recent-identifier cache (spec
// §3): capacity is not configurable, it guards only against the server
// replaying the tail of the previous session on reconnect.
const dedupCapacity = 10

// dedupSet is the bounded FIFO of recently delivered article identifiers
// described in spec §4.7. Insertion is O(1); on overflow the oldest
// identifier is evicted. Safe for concurrent use, though in practice it
// is only ever touched from the current session's message pump; the
// engine keeps one set across reconnects.
type dedupSet struct {
	mu      sync.Mutex
	buf     buffer.Buffer[string]
	members map[string]struct{}
}

// newDedupSet constructs a capacity-10 duplicate filter. err is non-nil
// only if the underlying buffer's metrics registration fails, which
// cannot happen here since no metrics registry is passed to it.
func newDedupSet() *dedupSet {
	d := &dedupSet{members: make(map[string]struct{}, dedupCapacity)}

	buf, err := buffer.NewCircularBuffer[string](
		dedupCapacity,
		buffer.WithOverflowPolicy[string](buffer.DropOldest),
		buffer.WithDropCallback[string](func(evicted string) {
			delete(d.members, evicted)
		}),
	)
	if err != nil {
		// newCircularBuffer only fails on metrics registration, which is
		// never requested here.
		panic("stream: unexpected dedup buffer construction failure: " + err.Error())
	}
	d.buf = buf
	return d
}

// SeenOrAdd reports whether id was already present in the set. If it was
// not present, it is inserted, evicting the oldest entry if the set is at
// capacity.
func (d *dedupSet) SeenOrAdd(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.members[id]; ok {
		return true
	}

	d.members[id] = struct{}{}
	// Write never returns an error for the DropOldest policy.
	_ = d.buf.Write(id)
	return false
}

// Size returns the current number of tracked identifiers, for tests.
func (d *dedupSet) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Size()
}
