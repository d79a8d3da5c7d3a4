package form

// Validator checks the value of a node and returns a non-nil error when the
// value is not acceptable. For groups the value is the group's raw value map,
// for arrays the raw value slice.
type Validator func(value any) error

// Node is a form tree node: *Group, *Array or *Control.
type Node interface {
	// Validators returns the validators attached to the node.
	Validators() []Validator
	// Disabled reports whether the node is excluded from editing and validation.
	Disabled() bool
	// Touched reports whether the user has interacted with the node.
	Touched() bool
	// Dirty reports whether the user has changed the node's value.
	Dirty() bool

	SetDisabled(disabled bool)
	SetTouched(touched bool)
	SetDirty(dirty bool)

	sealed()
}

// state holds what all node kinds share.
type state struct {
	validators []Validator
	disabled   bool
	touched    bool
	dirty      bool
}

func newState(validators []Validator) state {
	return state{validators: append([]Validator(nil), validators...)}
}

func (s *state) Validators() []Validator { return s.validators }
func (s *state) Disabled() bool          { return s.disabled }
func (s *state) Touched() bool           { return s.touched }
func (s *state) Dirty() bool             { return s.dirty }
func (s *state) SetDisabled(d bool)      { s.disabled = d }
func (s *state) SetTouched(t bool)       { s.touched = t }
func (s *state) SetDirty(d bool)         { s.dirty = d }
func (s *state) sealed()                 {}

// copyState propagates the editing flags, which constructors never set.
func copyState(dst, src Node) {
	dst.SetDisabled(src.Disabled())
	dst.SetTouched(src.Touched())
	dst.SetDirty(src.Dirty())
}

// =============================================================================
// Group
// =============================================================================

// Group is a set of named child nodes. Names keep their insertion order.
type Group struct {
	state
	names    []string
	controls map[string]Node

	// Meta carries domain data attached to the group. It is cloned through
	// MetaCloner when implemented, and copied as-is otherwise.
	Meta any
}

// NewGroup creates an empty group with the given validators.
func NewGroup(validators ...Validator) *Group {
	return &Group{
		state:    newState(validators),
		controls: make(map[string]Node),
	}
}

// Set attaches n under name, replacing any node already registered there.
// It returns the group to allow chaining.
func (g *Group) Set(name string, n Node) *Group {
	if _, ok := g.controls[name]; !ok {
		g.names = append(g.names, name)
	}
	g.controls[name] = n
	return g
}

// Remove detaches the node registered under name.
func (g *Group) Remove(name string) {
	if _, ok := g.controls[name]; !ok {
		return
	}
	delete(g.controls, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i], g.names[i+1:]...)
			break
		}
	}
}

// Get returns the node registered under name, or nil.
func (g *Group) Get(name string) Node {
	return g.controls[name]
}

// Contains reports whether a node is registered under name.
func (g *Group) Contains(name string) bool {
	_, ok := g.controls[name]
	return ok
}

// Names returns the child names in insertion order.
func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.names) }

// =============================================================================
// Array
// =============================================================================

// Array is an ordered list of child nodes.
type Array struct {
	state
	controls []Node
}

// NewArray creates an empty array with the given validators.
func NewArray(validators ...Validator) *Array {
	return &Array{state: newState(validators)}
}

// Append adds nodes at the end of the array and returns the array.
func (a *Array) Append(nodes ...Node) *Array {
	a.controls = append(a.controls, nodes...)
	return a
}

// RemoveAt removes the node at index i. Out of range indexes are ignored.
func (a *Array) RemoveAt(i int) {
	if i < 0 || i >= len(a.controls) {
		return
	}
	a.controls = append(a.controls[:i], a.controls[i+1:]...)
}

// At returns the node at index i, or nil when out of range.
func (a *Array) At(i int) Node {
	if i < 0 || i >= len(a.controls) {
		return nil
	}
	return a.controls[i]
}

// Controls returns the child nodes in order.
func (a *Array) Controls() []Node {
	return append([]Node(nil), a.controls...)
}

// Len returns the number of children.
func (a *Array) Len() int { return len(a.controls) }

// =============================================================================
// Control
// =============================================================================

// Control holds a single value.
type Control struct {
	state
	value any
}

// NewControl creates a control holding value with the given validators.
func NewControl(value any, validators ...Validator) *Control {
	return &Control{state: newState(validators), value: value}
}

// Value returns the current value.
func (c *Control) Value() any { return c.value }

// SetValue replaces the value. It does not change the dirty flag.
func (c *Control) SetValue(v any) { c.value = v }

var (
	_ Node = (*Group)(nil)
	_ Node = (*Array)(nil)
	_ Node = (*Control)(nil)
)
