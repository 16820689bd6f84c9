package relay

import "sync"

// Buffer accumulates streamed console lines in upstream delivery order. It
// is unbounded on purpose: a session lives at most one timeout window, and
// dropping lines between authentication and callback registration would
// break command sampling.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *Buffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// Lines returns a snapshot copy; later appends don't mutate it.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
}
