package jsontree

import (
	"strconv"
	"strings"

	"github.com/matzehuels/dhcpdash/pkg/errors"
)

// =============================================================================
// Auto-Expand
// =============================================================================

// AutoExpand decides which nodes start open: those with at most Max
// children, or every node when All is set.
type AutoExpand struct {
	All bool
	Max int
}

var (
	AutoExpandNone = AutoExpand{}
	AutoExpandAll  = AutoExpand{All: true}
)

// ParseAutoExpand accepts "none", "all" or a non-negative child count.
func ParseAutoExpand(s string) (AutoExpand, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "none":
		return AutoExpandNone, nil
	case "all":
		return AutoExpandAll, nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return AutoExpand{}, errors.New(errors.ErrCodeInvalidInput,
				"invalid auto-expand value %q: use none, all or a node count", s)
		}
		return AutoExpand{Max: n}, nil
	}
}

// Allows reports whether a node with total children starts open.
func (a AutoExpand) Allows(total int) bool {
	return a.All || total <= a.Max
}

func (a AutoExpand) String() string {
	switch {
	case a.All:
		return "all"
	case a.Max == 0:
		return "none"
	}
	return strconv.Itoa(a.Max)
}

// UnmarshalText lets configuration files spell the value as text.
func (a *AutoExpand) UnmarshalText(text []byte) error {
	v, err := ParseAutoExpand(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a AutoExpand) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// =============================================================================
// Pager
// =============================================================================

// PageState is the state of a Pager.
type PageState int

const (
	// PageIdle: the first page is shown and no change was requested.
	PageIdle PageState = iota
	// PageLoading: a page change was requested but not applied yet.
	PageLoading
	// PageReady: the last requested page is shown.
	PageReady
)

func (s PageState) String() string {
	switch s {
	case PageLoading:
		return "loading"
	case PageReady:
		return "ready"
	}
	return "idle"
}

// Pager tracks the window of children shown for a wide node. A page change
// happens in two steps: Request records the target and enters PageLoading,
// Apply swaps the window. Requests made before Apply overwrite each other.
type Pager struct {
	total   int
	step    int
	page    int
	pending int
	state   PageState
}

// NewPager creates a pager over total children showing step per page. A
// non-positive step falls back to DefaultPageSize.
func NewPager(total, step int) Pager {
	if step <= 0 {
		step = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Pager{total: total, step: step}
}

// PageWindow returns the child window [start, end) of page after clamping
// it to [0, maxPage].
func PageWindow(total, step, page int) (start, end int) {
	p := NewPager(total, step)
	p.page = p.clamp(page)
	return p.Window()
}

// Total returns the number of children.
func (p Pager) Total() int { return p.total }

// Step returns the page size.
func (p Pager) Step() int { return p.step }

// Paged reports whether the children span more than one page.
func (p Pager) Paged() bool { return p.total > p.step }

// MaxPage returns the index of the last page.
func (p Pager) MaxPage() int {
	if p.total == 0 {
		return 0
	}
	return (p.total+p.step-1)/p.step - 1
}

func (p Pager) clamp(page int) int {
	return max(0, min(page, p.MaxPage()))
}

// Page returns the page currently shown.
func (p Pager) Page() int { return p.page }

// Pending returns the requested page while loading.
func (p Pager) Pending() int { return p.pending }

// State returns the pager state.
func (p Pager) State() PageState { return p.state }

// Window returns the shown child range [start, end).
func (p Pager) Window() (start, end int) {
	start = p.page * p.step
	return start, min(p.total, start+p.step)
}

// Request records a page change. The page is clamped to [0, MaxPage].
func (p *Pager) Request(page int) {
	p.pending = p.clamp(page)
	p.state = PageLoading
}

// Apply completes a requested change. It reports whether the shown page
// changed.
func (p *Pager) Apply() bool {
	if p.state != PageLoading {
		return false
	}
	changed := p.page != p.pending
	p.page = p.pending
	p.state = PageReady
	return changed
}
