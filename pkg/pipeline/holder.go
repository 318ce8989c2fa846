package pipeline

import "sync/atomic"

// Holder publishes the current Pipeline to concurrent readers. A reload replaces
// the whole Pipeline in one atomic swap, so a request sees either the old schema
// or the new one and never a mix.
type Holder struct {
	p atomic.Pointer[Pipeline]
}

// NewHolder publishes p.
func NewHolder(p *Pipeline) *Holder {
	h := &Holder{}
	h.p.Store(p)
	return h
}

// Load returns the current Pipeline.
func (h *Holder) Load() *Pipeline { return h.p.Load() }

// Swap publishes next and returns the Pipeline it replaced.
func (h *Holder) Swap(next *Pipeline) *Pipeline { return h.p.Swap(next) }
