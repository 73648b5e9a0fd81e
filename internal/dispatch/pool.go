// Package dispatch runs grid-total stages over a persistent set of worker
// goroutines with a full barrier between stages.
package dispatch

import (
	"runtime"
	"sync"
)

// Kernel processes one row of a stage. Rows of the same stage must write
// disjoint outputs and read only what earlier stages produced.
type Kernel func(row int)

// Pool is a fixed set of workers woken once per stage. Workers pick rows
// round robin (worker w takes rows w, w+n, w+2n, ...) and the caller of Run
// sleeps until every worker has reported back.
type Pool struct {
	runMu sync.Mutex

	mu      sync.Mutex
	cond    *sync.Cond
	step    int
	pending int
	rows    int
	kernel  Kernel
	closed  bool

	workers int
	wg      sync.WaitGroup
}

// NewPool starts n workers. n < 1 uses GOMAXPROCS.
func NewPool(n int) *Pool {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: n}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.workerLoop(i)
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) workerLoop(index int) {
	defer p.wg.Done()
	lastStep := 0
	p.mu.Lock()
	for {
		for p.step == lastStep && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.mu.Unlock()
			return
		}
		lastStep = p.step
		kernel, rows := p.kernel, p.rows
		p.mu.Unlock()

		for row := index; row < rows; row += p.workers {
			kernel(row)
		}

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}

// Run executes kernel for rows [0, rows) and returns once all of them are
// done. Concurrent callers are serialized. Run on a closed pool executes the
// kernel on the calling goroutine.
func (p *Pool) Run(rows int, kernel Kernel) {
	if rows <= 0 {
		return
	}
	p.runMu.Lock()
	defer p.runMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		for row := 0; row < rows; row++ {
			kernel(row)
		}
		return
	}
	p.kernel = kernel
	p.rows = rows
	p.pending = p.workers
	p.step++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.kernel = nil
	p.mu.Unlock()
}

// Close stops the workers and waits for them to exit. It is safe to call
// more than once.
func (p *Pool) Close() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}
