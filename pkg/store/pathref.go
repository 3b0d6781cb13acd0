package store

import "sync/atomic"

// PathRef is an atomically-swappable reference to the currently open
// project root. It is shared between the session layer and any side
// channels (such as an asset file server) that need to resolve paths
// relative to the open project: set on open, cleared on close.
type PathRef struct {
	v atomic.Pointer[string]
}

// Set publishes path as the current project root.
func (r *PathRef) Set(path string) {
	r.v.Store(&path)
}

// Clear removes the current project root.
func (r *PathRef) Clear() {
	r.v.Store(nil)
}

// Get returns the current project root and whether one is set.
func (r *PathRef) Get() (string, bool) {
	p := r.v.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}
