package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed set of goroutines. A pool with a
// single worker runs every task inline on the caller's goroutine.
type Pool struct {
	wg    sync.WaitGroup
	tasks chan func()
	close func()
}

// Start creates a pool with numWorkers goroutines. Values below 1 select
// runtime.GOMAXPROCS(0).
func Start(numWorkers int) *Pool {
	numWorkers = Workers(numWorkers)

	pool := &Pool{close: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.tasks = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.tasks {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.tasks) })

	return pool
}

// Workers resolves a requested worker count: values below 1 select
// runtime.GOMAXPROCS(0).
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Do submits f. It blocks while every worker is busy and the queue is full.
func (p *Pool) Do(f func()) {
	if p.tasks == nil {
		f()
		return
	}
	p.tasks <- f
}

// Wait stops accepting work and blocks until every submitted task returned.
// The pool cannot be reused afterwards.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}

// Span is a half-open index range [From, To).
type Span struct {
	From, To int
}

// Len returns the number of indices in s.
func (s Span) Len() int {
	return s.To - s.From
}

// Split partitions [0, n) into at most parts contiguous, non-empty spans of
// near-equal length, in ascending order.
func Split(n, parts int) []Span {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	spans := make([]Span, 0, parts)
	step, extra := n/parts, n%parts
	from := 0
	for i := range parts {
		size := step
		if i < extra {
			size++
		}
		spans = append(spans, Span{From: from, To: from + size})
		from += size
	}
	return spans
}

// Run calls f once for every span on a fresh pool of numWorkers and returns
// when all calls have finished.
func Run(numWorkers int, spans []Span, f func(i int, s Span)) {
	pool := Start(min(numWorkers, max(len(spans), 1)))
	for i, s := range spans {
		pool.Do(func() { f(i, s) })
	}
	pool.Wait()
}
