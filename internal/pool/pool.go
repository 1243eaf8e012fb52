// Package pool reuses the byte buffers a pack/unpack loop needs across
// repeated calls: cmd/vidpakctl's pack/unpack/bench subcommands all call
// Pack or Unpack once per channel, once per iteration, or once per frame
// in a stream, and every such call wants a dst/plane buffer the same
// size as the last one. Unlike a codec with a handful of fixed transform
// buffer sizes, a vidpak frame's packed size depends on the caller's
// chosen resolution and tile geometry, so buffers are kept in
// power-of-two size classes grown on demand rather than a fixed ladder.
package pool

import "sync"

// minClass is the smallest pooled size class. Buffers smaller than this
// (container headers and per-tile length fields, a handful of bytes
// each) are cheap enough that a plain make costs less than the sync.Pool
// bookkeeping would.
const minClass = 1024

var (
	poolsMu sync.Mutex
	pools   = map[int]*sync.Pool{}
)

// classFor returns the smallest power of two >= size that is also >=
// minClass.
func classFor(size int) int {
	c := minClass
	for c < size {
		c <<= 1
	}
	return c
}

func poolFor(class int) *sync.Pool {
	poolsMu.Lock()
	p, ok := pools[class]
	if !ok {
		p = &sync.Pool{
			New: func() any {
				b := make([]byte, class)
				return &b
			},
		}
		pools[class] = p
	}
	poolsMu.Unlock()
	return p
}

// Get returns a byte slice of length size. Slices at or above minClass
// are drawn from a size-class pool and may be reused from a prior Put;
// smaller slices are allocated fresh every time. The caller must call
// Put when done with a slice obtained this way.
func Get(size int) []byte {
	if size < minClass {
		return make([]byte, size)
	}
	class := classFor(size)
	bp := poolFor(class).Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
	}
	return b[:size]
}

// Put returns a byte slice obtained from Get to its size-class pool.
// Slices smaller than minClass were never pooled and are dropped.
func Put(b []byte) {
	c := cap(b)
	if c < minClass {
		return
	}
	class := classFor(c)
	b = b[:c]
	poolFor(class).Put(&b)
}
