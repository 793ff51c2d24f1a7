// Package worker provides a worker pool for parsing many games in
// parallel, as when loading a multi-game file or database dump.
package worker

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine"
	"github.com/pgnview/pgnview/internal/parser"
	"github.com/pgnview/pgnview/internal/tree"
)

// WorkItem is one game's movetext awaiting parsing.
type WorkItem struct {
	Text  string
	Index int // original position in the input
}

// ParseResult carries one parsed game back to the consumer.
type ParseResult struct {
	Tree  *tree.Tree
	Index int
	Err   error
}

// Pool parses submitted movetext on a fixed set of worker goroutines.
// Each worker builds with its own engine instances, so games never share
// rules-engine state.
type Pool struct {
	numWorkers int
	bufferSize int
	newEngine  engine.Factory
	opts       *config.Options
	workChan   chan WorkItem
	resultChan chan ParseResult
	wg         sync.WaitGroup
	stopFlag   int32
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the work and result channel buffer size.
func WithBufferSize(size int) Option {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// WithEngine sets the rules-engine factory used by the workers. The
// default is the corentings/chess adapter.
func WithEngine(f engine.Factory) Option {
	return func(p *Pool) {
		if f != nil {
			p.newEngine = f
		}
	}
}

// NewPool creates a pool. Defaults: 1 worker, buffer of 10, a nil opts
// uses parsing defaults.
func NewPool(opts *config.Options, poolOpts ...Option) *Pool {
	if opts == nil {
		opts = config.NewOptions()
	}
	p := &Pool{
		numWorkers: 1,
		bufferSize: 10,
		opts:       opts,
	}
	for _, opt := range poolOpts {
		opt(p)
	}
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ParseResult, p.bufferSize)
	return p
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker parses items from the work channel until it is closed. A
// stopped pool drains remaining items without parsing them.
func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue
		}
		t, err := parser.Parse(item.Text, p.newEngine, p.opts)
		p.resultChan <- ParseResult{Tree: t, Index: item.Index, Err: err}
	}
}

// Submit queues a game for parsing, blocking when the buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// TrySubmit queues a game without blocking and reports whether it was
// accepted.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.workChan <- item:
		return true
	default:
		return false
	}
}

// Stop signals workers to skip items not yet started.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped reports whether Stop has been called.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the work channel, waits for the workers, then closes the
// result channel.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the channel of parsed games.
func (p *Pool) Results() <-chan ParseResult {
	return p.resultChan
}

// NumWorkers returns the pool size.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// ParseAll parses every movetext and returns the results in input order.
func ParseAll(texts []string, opts *config.Options, poolOpts ...Option) []ParseResult {
	p := NewPool(opts, poolOpts...)
	p.Start()

	go func() {
		for i, text := range texts {
			p.Submit(WorkItem{Text: text, Index: i})
		}
		p.Close()
	}()

	results := make([]ParseResult, 0, len(texts))
	for res := range p.Results() {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}
