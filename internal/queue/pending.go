package queue

import "sort"

// PendingSet holds the ids of tracks flagged to be skipped when reached.
type PendingSet struct {
	ids map[string]struct{}
}

// NewPendingSet returns an empty set.
func NewPendingSet() *PendingSet {
	return &PendingSet{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports whether it is now flagged.
func (p *PendingSet) Toggle(id string) bool {
	if _, ok := p.ids[id]; ok {
		delete(p.ids, id)
		return false
	}
	p.ids[id] = struct{}{}
	return true
}

// Has reports whether id is flagged.
func (p *PendingSet) Has(id string) bool {
	_, ok := p.ids[id]
	return ok
}

// Remove unflags id. It is a no-op when id is not flagged.
func (p *PendingSet) Remove(id string) {
	delete(p.ids, id)
}

// Len returns the number of flagged ids.
func (p *PendingSet) Len() int {
	return len(p.ids)
}

// IDs returns the flagged ids in sorted order.
func (p *PendingSet) IDs() []string {
	ids := make([]string, 0, len(p.ids))
	for id := range p.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
