package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// overlayRenderers keeps one sync.Pool of glamour renderers per Options
// value. A TermRenderer must not be shared between concurrent Render calls,
// so callers borrow one and hand it back.
type overlayRenderers struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var renderers = &overlayRenderers{pools: make(map[Options]*sync.Pool)}

func (r *overlayRenderers) pool(opts Options) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pools[opts]; ok {
		return p
	}
	p := &sync.Pool{
		New: func() any {
			tr, err := newTermRenderer(opts)
			if err != nil {
				return nil
			}
			return tr
		},
	}
	r.pools[opts] = p
	return p
}

// borrow returns a renderer for opts, building one when the pool is empty
func (r *overlayRenderers) borrow(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.pool(opts).Get().(*glamour.TermRenderer); ok && tr != nil {
		return tr, nil
	}
	return newTermRenderer(opts)
}

func (r *overlayRenderers) giveBack(opts Options, tr *glamour.TermRenderer) {
	if tr != nil {
		r.pool(opts).Put(tr)
	}
}

func (r *overlayRenderers) reset() {
	r.mu.Lock()
	r.pools = make(map[Options]*sync.Pool)
	r.mu.Unlock()
}

func (r *overlayRenderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every pooled renderer.
func ClearCache() {
	renderers.reset()
}

// CacheSize returns the number of distinct option sets with a pool.
func CacheSize() int {
	return renderers.size()
}
