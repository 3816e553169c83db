// Package dict provides a reference-counted string interning table.
//
// Every context owns one dictionary. Strings used as cache keys (mount-point
// labels, content-ids) are inserted here so that repeated comparisons run on
// a single canonical backing and lifetimes are explicit: each Insert must be
// paired with a Remove.
package dict

import "sync"

type Dict struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	s    string
	refs int
}

func New() *Dict {
	return &Dict{entries: map[string]*entry{}}
}

// Insert interns s and returns the canonical instance.
func (d *Dict) Insert(s string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[s]
	if !ok {
		e = &entry{s: s}
		d.entries[s] = e
	}
	e.refs++
	return e.s
}

// Remove drops one reference to s; the entry is deleted when the last
// reference is gone. Removing a string that was never inserted is a no-op.
func (d *Dict) Remove(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[s]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(d.entries, s)
	}
}

func (d *Dict) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
