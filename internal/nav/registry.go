package nav

import "sync"

// Registry routes input to the navigator of the focused board. Hosts
// register each board under an identifier and switch focus as the user
// moves between boards; lookups never consult widget-global state.
type Registry struct {
	mu      sync.Mutex
	byID    map[string]*Navigator
	focused string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Navigator)}
}

// Register binds a navigator to id, replacing any prior binding.
func (r *Registry) Register(id string, n *Navigator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = n
}

// Unregister removes a binding and clears focus if it pointed there.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	if r.focused == id {
		r.focused = ""
	}
}

// Focus marks id as the input target. Unknown ids clear focus.
func (r *Registry) Focus(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; ok {
		r.focused = id
	} else {
		r.focused = ""
	}
}

// Active returns the focused navigator, or nil when nothing has focus.
func (r *Registry) Active() *Navigator {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[r.focused]
}

// HandleKey dispatches a navigation key to the focused navigator and
// reports whether the key was consumed.
func (r *Registry) HandleKey(key string) bool {
	n := r.Active()
	if n == nil {
		return false
	}
	switch key {
	case "left":
		return n.StepBackward()
	case "right":
		return n.StepForward()
	case "home":
		return n.ToStart()
	case "end":
		return n.ToEnd()
	}
	return false
}
