package jsontree

import (
	"time"

	"golang.org/x/text/collate"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

const (
	// MaxRecursionLevel is the depth at which nodes become "load more"
	// placeholders.
	MaxRecursionLevel = 50

	// DefaultPageSize is the number of children shown per page.
	DefaultPageSize = 50
)

// DefaultSecretKeys are the keys redacted when Options.SecretKeys is nil.
var DefaultSecretKeys = []string{"password", "secret"}

// ValueRenderer renders a leaf value in place of the default formatting.
type ValueRenderer func(key string, value any) string

// Options configure a Tree.
type Options struct {
	// Key names the top node. Without a key the top node is the root: always
	// open, not collapsible and "valueless" when the value is nil.
	Key string

	AutoExpand     AutoExpand
	ForceOpen      bool // open the top node regardless of AutoExpand
	RecursionLevel int  // level of the top node

	SecretKeys     []string
	CanShowSecrets bool

	PageSize  int
	Templates map[string]ValueRenderer // keyed by leaf key
}

// NodeID identifies a node within its Tree.
type NodeID int

// NoNode is the parent of the top node.
const NoNode NodeID = -1

// renderContext is what a node hands down to its children. Children get a
// modified copy; the parent's context never changes through them.
type renderContext struct {
	level          int
	forceOpen      bool
	autoExpand     AutoExpand
	secretKeys     map[string]struct{}
	canShowSecrets bool
	step           int
}

func (c renderContext) child() renderContext {
	c.level++
	c.forceOpen = false
	return c
}

type node struct {
	id       NodeID
	parent   NodeID
	key      string
	hasKey   bool
	value    any
	resolved any
	kind     Kind
	depth    int
	ctx      renderContext
	total    int

	open        bool
	placeholder bool
	secret      bool
	revealed    bool
	corrupted   bool

	pager    Pager
	children []NodeID
	built    bool
}

// Tree is a rendered view of a value. Nodes live in an arena indexed by
// NodeID and are built lazily when opened. The value itself is never
// modified. A Tree is not safe for concurrent use.
type Tree struct {
	nodes     []*node
	free      []NodeID // dropped slots, reused by add
	top       NodeID
	templates map[string]ValueRenderer
	coll      *collate.Collator
}

// New builds the tree for value.
func New(value any, opts Options) *Tree {
	start := time.Now()

	keys := opts.SecretKeys
	if keys == nil {
		keys = DefaultSecretKeys
	}
	secrets := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		secrets[k] = struct{}{}
	}
	step := opts.PageSize
	if step <= 0 {
		step = DefaultPageSize
	}

	t := &Tree{
		templates: opts.Templates,
		coll:      newCollator(),
	}
	ctx := renderContext{
		level:          max(0, opts.RecursionLevel),
		forceOpen:      opts.ForceOpen,
		autoExpand:     opts.AutoExpand,
		secretKeys:     secrets,
		canShowSecrets: opts.CanShowSecrets,
		step:           step,
	}
	t.top = t.add(NoNode, opts.Key, opts.Key != "", value, 0, ctx)
	t.expand(t.top)

	observability.Render().OnBuild(len(t.nodes), time.Since(start))
	return t
}

func (t *Tree) add(parent NodeID, key string, hasKey bool, value any, depth int, ctx renderContext) NodeID {
	resolved := resolve(value)
	n := &node{
		id:       NodeID(len(t.nodes)),
		parent:   parent,
		key:      key,
		hasKey:   hasKey,
		value:    value,
		resolved: resolved,
		kind:     classify(resolved),
		depth:    depth,
		ctx:      ctx,
	}
	n.total = childCount(resolved)
	n.pager = NewPager(n.total, ctx.step)
	n.placeholder = ctx.level >= MaxRecursionLevel
	n.corrupted = IsCorrupted(resolved)
	if _, ok := ctx.secretKeys[key]; ok && hasKey && n.kind == KindPrimitive {
		n.secret = true
	}
	n.open = t.initiallyOpen(n)
	if k := len(t.free); k > 0 {
		n.id = t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[n.id] = n
		return n.id
	}
	t.nodes = append(t.nodes, n)
	return n.id
}

func (t *Tree) initiallyOpen(n *node) bool {
	if n.placeholder || n.kind == KindPrimitive {
		return false
	}
	if n.isRoot() {
		return true
	}
	return n.ctx.forceOpen || n.total == 1 || n.ctx.autoExpand.Allows(n.total)
}

func (n *node) isRoot() bool { return n.parent == NoNode && !n.hasKey }

// expand builds the children of id and of every open descendant, using an
// explicit stack rather than recursion.
func (t *Tree) expand(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.built || !n.open || n.placeholder || n.kind == KindPrimitive {
			continue
		}
		entries := childEntries(n.resolved, t.coll)
		start, end := n.pager.Window()
		end = min(end, len(entries))
		start = min(start, end)
		childCtx := n.ctx.child()
		for _, e := range entries[start:end] {
			cid := t.add(n.id, e.key, true, e.value, n.depth+1, childCtx)
			n.children = append(n.children, cid)
			stack = append(stack, cid)
		}
		n.built = true
	}
}

// drop removes the built children of id from the arena and frees their
// slots for the next page.
func (t *Tree) drop(id NodeID) {
	stack := append([]NodeID(nil), t.nodes[id].children...)
	for len(stack) > 0 {
		cid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c := t.nodes[cid]; c != nil {
			stack = append(stack, c.children...)
			t.nodes[cid] = nil
			t.free = append(t.free, cid)
		}
	}
	t.nodes[id].children = nil
	t.nodes[id].built = false
}

func (t *Tree) lookup(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(t.nodes) || t.nodes[id] == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	return t.nodes[id], nil
}

// =============================================================================
// Actions
// =============================================================================

// Toggle opens or closes a node and returns its new state. The root,
// primitives and placeholders cannot be toggled and keep their state.
func (t *Tree) Toggle(id NodeID) (bool, error) {
	n, err := t.lookup(id)
	if err != nil {
		return false, err
	}
	if n.isRoot() || n.placeholder || n.kind == KindPrimitive {
		return n.open, nil
	}
	n.open = !n.open
	if n.open {
		t.expand(id)
	}
	return n.open, nil
}

// LoadMore turns a recursion placeholder into an open node whose level
// starts again at zero. Other nodes are left alone.
func (t *Tree) LoadMore(id NodeID) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !n.placeholder {
		return nil
	}
	observability.Render().OnLoadMore(n.ctx.level)
	n.ctx.level = 0
	n.placeholder = false
	n.open = n.kind.Complex()
	t.expand(id)
	return nil
}

// RequestPage starts a page change on a node. The page is clamped to the
// node's page range and shown after ApplyPage.
func (t *Tree) RequestPage(id NodeID, page int) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if n.kind == KindPrimitive {
		return errors.New(errors.ErrCodeInvalidInput, "node %d has no children to page", id)
	}
	n.pager.Request(page)
	return nil
}

// ApplyPage completes a pending page change and rebuilds the node's
// children. It reports whether the shown page changed. IDs of the old
// children may be reused by the new ones.
func (t *Tree) ApplyPage(id NodeID) (bool, error) {
	n, err := t.lookup(id)
	if err != nil {
		return false, err
	}
	if !n.pager.Apply() {
		return false, nil
	}
	observability.Render().OnPageApplied(n.pager.Page())
	t.drop(id)
	t.expand(id)
	return true, nil
}

// Reveal shows the value of a redacted leaf. It fails with FORBIDDEN when
// the tree was built without CanShowSecrets.
func (t *Tree) Reveal(id NodeID) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !n.secret || n.revealed {
		return nil
	}
	if !n.ctx.canShowSecrets {
		observability.Render().OnSecretRevealed(n.key, false)
		return errors.New(errors.ErrCodeForbidden, "not allowed to show secret %q", n.key)
	}
	observability.Render().OnSecretRevealed(n.key, true)
	n.revealed = true
	return nil
}

// =============================================================================
// Views
// =============================================================================

// Node is a read-only snapshot of a tree node.
type Node struct {
	ID     NodeID
	Parent NodeID
	Key    string
	HasKey bool
	Value  any
	Kind   Kind
	Depth  int // display depth below the top node
	Level  int // recursion level
	Total  int // number of children

	Root        bool
	HasValue    bool
	Open        bool
	Placeholder bool
	Secret      bool
	Revealed    bool
	Corrupted   bool

	Paged     bool
	Start     int // first shown child
	End       int // one past the last shown child
	Page      int
	MaxPage   int
	PageState PageState

	Children []NodeID
}

// Empty reports whether a complex node has no children.
func (n Node) Empty() bool { return n.Kind.Complex() && n.Total == 0 }

func (t *Tree) view(n *node) Node {
	start, end := n.pager.Window()
	return Node{
		ID:          n.id,
		Parent:      n.parent,
		Key:         n.key,
		HasKey:      n.hasKey,
		Value:       n.value,
		Kind:        n.kind,
		Depth:       n.depth,
		Level:       n.ctx.level,
		Total:       n.total,
		Root:        n.isRoot(),
		HasValue:    !n.isRoot() || n.value != nil,
		Open:        n.open,
		Placeholder: n.placeholder,
		Secret:      n.secret,
		Revealed:    n.revealed,
		Corrupted:   n.corrupted,
		Paged:       n.pager.Paged(),
		Start:       start,
		End:         end,
		Page:        n.pager.Page(),
		MaxPage:     n.pager.MaxPage(),
		PageState:   n.pager.State(),
		Children:    append([]NodeID(nil), n.children...),
	}
}

// Top returns the id of the top node.
func (t *Tree) Top() NodeID { return t.top }

// Node returns a snapshot of node id.
func (t *Tree) Node(id NodeID) (Node, error) {
	n, err := t.lookup(id)
	if err != nil {
		return Node{}, err
	}
	return t.view(n), nil
}

// Visible returns the nodes currently on screen in display order: the top
// node and the shown children of every open node.
func (t *Tree) Visible() []Node {
	var out []Node
	stack := []NodeID{t.top}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		out = append(out, t.view(n))
		if !n.open {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return out
}

// Size returns the number of nodes built so far.
func (t *Tree) Size() int {
	return len(t.nodes) - len(t.free)
}
