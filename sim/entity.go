package sim

import "fmt"

// Entity is a hierarchical naming node attached to every simulated object
// for tracing. Every component, port, and primitive that wants to appear in
// a trace owns (or borrows) an Entity.
//
// Aliases let a parent re-label a child's port: a subcomponent's "tx" port
// can be exposed externally as the parent's "out" port without the child
// knowing its own position in the tree.
type Entity struct {
	id       Id
	name     string
	fullName string
	parent   *Entity
	tracker  Tracker
}

// NewEntity allocates an Id from tracker, computes the `::`-joined full
// name from parent, registers it (along with aliases) and emits a create
// trace event. parent may be nil only for the engine's root entity.
func NewEntity(parent *Entity, name string, tracker Tracker, aliases map[string][]string) (*Entity, error) {
	if tracker == nil {
		return nil, fmt.Errorf("entity %q: tracker is nil", name)
	}
	id := tracker.AllocID()
	full := name
	if parent != nil {
		full = parent.fullName + "::" + name
	}
	composed := composeAliases(parent, aliases)
	if err := tracker.AddEntity(id, full, composed); err != nil {
		return nil, fmt.Errorf("entity %q: %w", full, err)
	}
	e := &Entity{id: id, name: name, fullName: full, parent: parent, tracker: tracker}
	tracker.Create(id, full)
	return e, nil
}

// composeAliases prefixes a child's local aliases with the parent's full
// name so that a grandparent can still resolve a deeply nested alias to an
// absolute external name.
func composeAliases(parent *Entity, aliases map[string][]string) map[string][]string {
	if len(aliases) == 0 {
		return nil
	}
	out := make(map[string][]string, len(aliases))
	for local, externals := range aliases {
		composed := make([]string, len(externals))
		copy(composed, externals)
		if parent != nil {
			for i, ext := range externals {
				composed[i] = parent.fullName + "::" + ext
			}
		}
		out[local] = composed
	}
	return out
}

// ID returns the entity's allocated Id.
func (e *Entity) ID() Id { return e.id }

// Name returns the entity's local (non-hierarchical) name.
func (e *Entity) Name() string { return e.name }

// FullName returns the `::`-joined chain from the root.
func (e *Entity) FullName() string { return e.fullName }

// Parent returns the entity's parent, or nil for the root.
func (e *Entity) Parent() *Entity { return e.parent }

// Tracker returns the tracker this entity (and its descendants) report to.
func (e *Entity) Tracker() Tracker { return e.tracker }

// Destroy emits a destroy trace event. Callers invoke this when the owning
// component is dropped; the core never calls it automatically since Go has
// no deterministic destructors.
func (e *Entity) Destroy() {
	e.tracker.Destroy(e.id, e.fullName)
}

// Log emits a log trace event at level through this entity's tracker, if
// level is enabled for this entity.
func (e *Entity) Log(level LogLevel, msg string) {
	if e.tracker.IsEnabled(e.id, level) {
		e.tracker.Log(e.id, level, msg)
	}
}

// Child allocates a new Entity rooted at e, a convenience over NewEntity
// for components that construct their own sub-entities.
func (e *Entity) Child(name string, aliases map[string][]string) (*Entity, error) {
	return NewEntity(e, name, e.tracker, aliases)
}
