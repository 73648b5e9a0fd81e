package grid

// PingPong holds two equally sized buffers with alternating roles. Stages
// read Front and write Back, then Swap; no stage ever reads and writes the
// same buffer.
type PingPong[T any] struct {
	bufs [2][]T
	cur  int
}

// NewPingPong allocates both buffers with n elements.
func NewPingPong[T any](n int) *PingPong[T] {
	return &PingPong[T]{bufs: [2][]T{make([]T, n), make([]T, n)}}
}

// Front returns the buffer holding the latest complete result.
func (p *PingPong[T]) Front() []T { return p.bufs[p.cur] }

// Back returns the buffer the next stage writes into.
func (p *PingPong[T]) Back() []T { return p.bufs[p.cur^1] }

// Swap rotates the roles so the freshly written buffer becomes Front.
func (p *PingPong[T]) Swap() { p.cur ^= 1 }

// Len returns the element count of each buffer.
func (p *PingPong[T]) Len() int { return len(p.bufs[0]) }
