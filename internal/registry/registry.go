// Package registry keeps the ordered roster of live sessions.
//
// The roster is ordered by first observation: a session keeps its position
// for as long as the host keeps reporting it, disappears as soon as a report
// omits it, and goes to the back of the roster if it ever comes back. That
// ordering is what makes positional targets ("switch to session 2") stable
// between session updates.
//
// A Registry is not safe for concurrent use. It is owned by exactly one
// plugin state and only touched from the host's event loop.
package registry

// Registry is an ordered, deduplicated list of session names.
type Registry struct {
	names []string
	index map[string]struct{}
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Reconcile makes the roster match live, the complete set of sessions the
// host currently reports. Names missing from live are dropped, surviving names
// keep their relative order, and names seen for the first time are appended in
// the order live presents them. Duplicates inside live collapse to one entry.
func (r *Registry) Reconcile(live []string) {
	alive := make(map[string]struct{}, len(live))
	for _, name := range live {
		alive[name] = struct{}{}
	}

	kept := r.names[:0]
	for _, name := range r.names {
		if _, ok := alive[name]; ok {
			kept = append(kept, name)
		} else {
			delete(r.index, name)
		}
	}
	// Clear the tail so dropped names are not pinned by the backing array.
	clear(r.names[len(kept):])
	r.names = kept

	for _, name := range live {
		if _, ok := r.index[name]; ok {
			continue
		}
		r.index[name] = struct{}{}
		r.names = append(r.names, name)
	}
}

// ResolveIndex returns the name at position i in roster order.
// Out-of-range positions, negative ones included, report false.
func (r *Registry) ResolveIndex(i int) (string, bool) {
	if i < 0 || i >= len(r.names) {
		return "", false
	}
	return r.names[i], true
}

// IndexOf returns the roster position of name.
func (r *Registry) IndexOf(name string) (int, bool) {
	if !r.Contains(name) {
		return 0, false
	}
	for i, n := range r.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether name is currently in the roster.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of sessions in the roster.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns a copy of the roster in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
