package chat

import "sync"

// Handler reacts to a global key press
type Handler func(KeyEvent) Action

// Registry holds global key handlers, at most one per owner.
// Handlers run in registration order; the first one that returns an action
// other than ActionNone wins.
type Registry struct {
	mu      sync.Mutex
	entries []registration
	nextTok uint64
}

type registration struct {
	owner   string
	token   uint64
	handler Handler
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Subscription is a handle on one registration
type Subscription struct {
	reg   *Registry
	owner string
	token uint64
	once  sync.Once
}

// Subscribe registers h for owner. An existing registration for the same
// owner is replaced, so an owner can never be subscribed twice.
func (r *Registry) Subscribe(owner string, h Handler) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextTok++
	entry := registration{owner: owner, token: r.nextTok, handler: h}

	replaced := false
	for i := range r.entries {
		if r.entries[i].owner == owner {
			r.entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		r.entries = append(r.entries, entry)
	}

	return &Subscription{reg: r, owner: owner, token: entry.token}
}

// Release removes the registration. It is safe to call more than once and
// does nothing when the owner has since subscribed again.
func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.reg.remove(s.owner, s.token)
	})
}

func (r *Registry) remove(owner string, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].owner == owner && r.entries[i].token == token {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Dispatch offers ev to the registered handlers
func (r *Registry) Dispatch(ev KeyEvent) Action {
	r.mu.Lock()
	handlers := make([]Handler, len(r.entries))
	for i, e := range r.entries {
		handlers[i] = e.handler
	}
	r.mu.Unlock()

	for _, h := range handlers {
		if a := h(ev); a != ActionNone {
			return a
		}
	}
	return ActionNone
}

// Len returns the number of active registrations
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
