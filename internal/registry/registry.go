// Package registry is the widget host's core data structure: the mapping
// from widget identifier to widget record, with an auxiliary container index
// so execute and reset can accept the same container reference that was used
// at render time.
//
// Update applies a mutator under the registry lock, so reentrant observers
// (an inbound message handler firing during a send, for instance) only ever
// see fully-consistent records. Entries are never dropped implicitly; only
// the explicit Remove operation deletes them.
package registry

import (
	"fmt"
	"sync"

	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"golang.org/x/net/html"
)

// Record is the registry's value type. The registry exclusively owns it; the
// boundary and channel belong to the record for their lifetime. The boundary
// is replaced on reset, but the record's key never changes.
type Record struct {
	ID       id.WidgetID
	Config   types.WidgetConfig
	Boundary *boundary.Frame
	Channel  types.Channel
	State    types.WidgetState
}

// Registry maps widget ids to records.
type Registry struct {
	mu          sync.RWMutex
	widgets     map[id.WidgetID]*Record
	byContainer map[*html.Node]id.WidgetID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		widgets:     make(map[id.WidgetID]*Record),
		byContainer: make(map[*html.Node]id.WidgetID),
	}
}

// Insert adds a record under its widget id and indexes its container.
func (r *Registry) Insert(rec *Record) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("registry: record must carry a widget id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.widgets[rec.ID]; exists {
		return fmt.Errorf("registry: duplicate widget id %s", rec.ID)
	}

	r.widgets[rec.ID] = rec
	if rec.Boundary != nil {
		r.byContainer[rec.Boundary.Host().Node()] = rec.ID
	}
	return nil
}

// Get returns a snapshot of the record for the widget id. The snapshot is a
// copy; mutation goes through Update.
func (r *Registry) Get(widgetID id.WidgetID) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.widgets[widgetID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// ByContainer resolves a container node back to its widget id.
func (r *Registry) ByContainer(container *html.Node) (id.WidgetID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	widgetID, ok := r.byContainer[container]
	return widgetID, ok
}

// Update applies the mutator to the widget's record as a single atomic step.
// Returns false when the widget is unknown.
func (r *Registry) Update(widgetID id.WidgetID, mutate func(*Record)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.widgets[widgetID]
	if !ok {
		return false
	}
	mutate(rec)
	return true
}

// Remove deletes the record and its container index entry. The caller is
// responsible for detaching the boundary.
func (r *Registry) Remove(widgetID id.WidgetID) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.widgets[widgetID]
	if !ok {
		return Record{}, false
	}

	delete(r.widgets, widgetID)
	if rec.Boundary != nil {
		delete(r.byContainer, rec.Boundary.Host().Node())
	}
	return *rec, true
}

// List returns snapshots of all records. Insertion order is irrelevant.
func (r *Registry) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.widgets))
	for _, rec := range r.widgets {
		out = append(out, *rec)
	}
	return out
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

// Stats summarizes widget states.
func (r *Registry) Stats() types.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := types.Stats{TotalWidgets: len(r.widgets)}
	for _, rec := range r.widgets {
		switch rec.State {
		case types.StateMounted:
			s.MountedWidgets++
		case types.StateExecuting:
			s.ExecutingWidgets++
		}
	}
	return s
}
