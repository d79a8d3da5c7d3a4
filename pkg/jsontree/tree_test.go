package jsontree

import (
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/dhcpdash/pkg/errors"
)

func wideArray(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// nested returns depth levels of {"child": ...} ending in a leaf.
func nested(depth int) any {
	var v any = "leaf"
	for i := 0; i < depth; i++ {
		v = map[string]any{"child": v}
	}
	return v
}

func childByKey(t *testing.T, tree *Tree, parent NodeID, key string) Node {
	t.Helper()
	p, err := tree.Node(parent)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range p.Children {
		n, _ := tree.Node(id)
		if n.Key == key {
			return n
		}
	}
	t.Fatalf("node %d has no child %q", parent, key)
	return Node{}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		total, step, page int
		start, end        int
	}{
		{424, 50, 100, 400, 424},
		{424, 50, 0, 0, 50},
		{424, 50, -3, 0, 50},
		{424, 50, 3, 150, 200},
		{50, 50, 1, 0, 50},
		{51, 50, 1, 50, 51},
		{0, 50, 5, 0, 0},
	}
	for _, tt := range tests {
		start, end := PageWindow(tt.total, tt.step, tt.page)
		if start != tt.start || end != tt.end {
			t.Errorf("PageWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.total, tt.step, tt.page, start, end, tt.start, tt.end)
		}
	}
}

func TestPagerStates(t *testing.T) {
	p := NewPager(424, 50)
	if p.State() != PageIdle || p.MaxPage() != 8 || !p.Paged() {
		t.Fatalf("new pager = %+v", p)
	}
	p.Request(2)
	p.Request(100) // last write wins
	if p.State() != PageLoading || p.Pending() != 8 || p.Page() != 0 {
		t.Fatalf("after requests: state=%v pending=%d page=%d", p.State(), p.Pending(), p.Page())
	}
	if !p.Apply() {
		t.Fatal("Apply should change the page")
	}
	if start, end := p.Window(); p.State() != PageReady || start != 400 || end != 424 {
		t.Errorf("state=%v window=[%d, %d)", p.State(), start, end)
	}
	if p.Apply() {
		t.Error("Apply without request must not change anything")
	}
}

func TestTreePagination(t *testing.T) {
	tree := New(wideArray(424), Options{})
	root, _ := tree.Node(tree.Top())
	if !root.Paged || len(root.Children) != 50 || root.Start != 0 || root.End != 50 {
		t.Fatalf("root = %+v", root)
	}

	if err := tree.RequestPage(tree.Top(), 100); err != nil {
		t.Fatal(err)
	}
	root, _ = tree.Node(tree.Top())
	if root.PageState != PageLoading || root.Start != 0 {
		t.Errorf("requested page must not apply before ApplyPage: %+v", root)
	}
	if !strings.Contains(tree.Render(PlainStyles()), "loading…") {
		t.Error("loading state should be rendered")
	}

	changed, err := tree.ApplyPage(tree.Top())
	if err != nil || !changed {
		t.Fatalf("ApplyPage = %v, %v", changed, err)
	}
	root, _ = tree.Node(tree.Top())
	if root.Start != 400 || root.End != 424 || len(root.Children) != 24 {
		t.Errorf("window = [%d, %d) with %d children", root.Start, root.End, len(root.Children))
	}
	first, _ := tree.Node(root.Children[0])
	if first.Key != "400" || first.Value != 400 {
		t.Errorf("first child = %q %v", first.Key, first.Value)
	}
	if tree.Size() != 25 {
		t.Errorf("old page nodes should be dropped, size = %d", tree.Size())
	}
}

func TestPagingReusesDroppedNodes(t *testing.T) {
	tree := New(wideArray(40), Options{PageSize: 10})
	built := tree.Size()
	for i := 0; i < 50; i++ {
		if err := tree.RequestPage(tree.Top(), i%4); err != nil {
			t.Fatal(err)
		}
		if _, err := tree.ApplyPage(tree.Top()); err != nil {
			t.Fatal(err)
		}
	}
	if len(tree.nodes) > built+10 {
		t.Errorf("arena grew to %d slots while paging", len(tree.nodes))
	}
	root, _ := tree.Node(tree.Top())
	if root.Page != 1 || len(root.Children) != 10 {
		t.Fatalf("root = %+v", root)
	}
	for i, id := range root.Children {
		n, err := tree.Node(id)
		if err != nil {
			t.Fatal(err)
		}
		if want := strconv.Itoa(10 + i); n.Key != want || n.Parent != tree.Top() {
			t.Errorf("child %d = %q (parent %d), want %q", i, n.Key, n.Parent, want)
		}
	}
}

func TestMapKeysThatPrintAlike(t *testing.T) {
	value := map[any]any{1: "a", "1": "b", 1.0: "c"}
	tree := New(value, Options{PageSize: 1, AutoExpand: AutoExpandAll})

	root, _ := tree.Node(tree.Top())
	if root.Total != 3 {
		t.Fatalf("Total = %d, want 3", root.Total)
	}
	if err := tree.RequestPage(tree.Top(), 2); err != nil {
		t.Fatal(err)
	}
	if _, err := tree.ApplyPage(tree.Top()); err != nil {
		t.Fatal(err)
	}
	root, _ = tree.Node(tree.Top())
	if len(root.Children) != 1 {
		t.Fatalf("page 2 shows %d children", len(root.Children))
	}
	last, _ := tree.Node(root.Children[0])
	if last.Key != "1#3" || last.Value != "b" {
		t.Errorf("last child = %q %v", last.Key, last.Value)
	}
}

func TestAutoExpand(t *testing.T) {
	value := map[string]any{
		"single": []any{"only"},
		"three":  []any{1, 2, 3},
		"empty":  map[string]any{},
	}
	tests := []struct {
		expand AutoExpand
		single bool
		three  bool
	}{
		{AutoExpandNone, true, false},
		{AutoExpand{Max: 2}, true, false},
		{AutoExpand{Max: 3}, true, true},
		{AutoExpandAll, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.expand.String(), func(t *testing.T) {
			tree := New(value, Options{AutoExpand: tt.expand})
			if got := childByKey(t, tree, tree.Top(), "single").Open; got != tt.single {
				t.Errorf("single open = %v", got)
			}
			if got := childByKey(t, tree, tree.Top(), "three").Open; got != tt.three {
				t.Errorf("three open = %v", got)
			}
		})
	}
}

func TestForceOpenAndToggle(t *testing.T) {
	tree := New([]any{1, 2, 3}, Options{Key: "pools", ForceOpen: true})
	top, _ := tree.Node(tree.Top())
	if top.Root || !top.Open || len(top.Children) != 3 {
		t.Fatalf("keyed top node = %+v", top)
	}
	open, err := tree.Toggle(tree.Top())
	if err != nil || open {
		t.Errorf("Toggle = %v, %v", open, err)
	}
	if got := len(tree.Visible()); got != 1 {
		t.Errorf("collapsed tree shows %d lines", got)
	}

	closed := New(map[string]any{"a": []any{1, 2}}, Options{})
	a := childByKey(t, closed, closed.Top(), "a")
	if a.Open || len(a.Children) != 0 {
		t.Fatalf("a should start closed and unbuilt: %+v", a)
	}
	if open, _ := closed.Toggle(a.ID); !open {
		t.Error("toggle should open")
	}
	if a, _ = closed.Node(a.ID); len(a.Children) != 2 {
		t.Errorf("children not built: %+v", a)
	}
}

func TestRootHandling(t *testing.T) {
	empty := New(nil, Options{})
	root, _ := empty.Node(empty.Top())
	if !root.Root || root.HasValue {
		t.Errorf("nil root = %+v", root)
	}
	if got := empty.Render(PlainStyles()); got != "(no value)" {
		t.Errorf("Render = %q", got)
	}

	tree := New(map[string]any{"a": 1, "b": 2, "c": 3}, Options{})
	root, _ = tree.Node(tree.Top())
	if !root.Open || !root.HasValue {
		t.Errorf("root = %+v", root)
	}
	if open, _ := tree.Toggle(root.ID); !open {
		t.Error("root must not collapse")
	}

	zero := New(0, Options{})
	if n, _ := zero.Node(zero.Top()); !n.HasValue {
		t.Error("zero is an assigned value")
	}
}

func TestRecursionLimit(t *testing.T) {
	tree := New(nested(60), Options{AutoExpand: AutoExpandAll})
	lines := tree.Visible()
	last := lines[len(lines)-1]
	if !last.Placeholder || last.Level != MaxRecursionLevel {
		t.Fatalf("last line = %+v", last)
	}
	if len(last.Children) != 0 {
		t.Error("placeholder subtree must not be built")
	}
	for _, n := range lines[:len(lines)-1] {
		if n.Placeholder {
			t.Fatalf("unexpected placeholder at level %d", n.Level)
		}
	}
	if !strings.HasSuffix(tree.RenderLine(last, PlainStyles()), "child: … load more") {
		t.Errorf("placeholder line = %q", tree.RenderLine(last, PlainStyles()))
	}

	if err := tree.LoadMore(last.ID); err != nil {
		t.Fatal(err)
	}
	resumed, _ := tree.Node(last.ID)
	if resumed.Placeholder || resumed.Level != 0 || !resumed.Open || len(resumed.Children) != 1 {
		t.Fatalf("after LoadMore = %+v", resumed)
	}
	child, _ := tree.Node(resumed.Children[0])
	if child.Level != 1 {
		t.Errorf("child level = %d, want 1", child.Level)
	}
	end := tree.Visible()
	if end[len(end)-1].Value != "leaf" {
		t.Errorf("remaining levels should render down to the leaf, got %+v", end[len(end)-1])
	}
}

func TestRecursionLevelOption(t *testing.T) {
	tree := New(nested(3), Options{RecursionLevel: MaxRecursionLevel - 1, AutoExpand: AutoExpandAll})
	root, _ := tree.Node(tree.Top())
	if root.Placeholder {
		t.Fatal("root below the limit renders normally")
	}
	child, _ := tree.Node(root.Children[0])
	if !child.Placeholder {
		t.Errorf("child at level %d should be a placeholder", child.Level)
	}
}

func TestSecrets(t *testing.T) {
	value := map[string]any{"password": "hunter2", "user": "admin", "secret": map[string]any{"x": 1}}

	hidden := New(value, Options{})
	pw := childByKey(t, hidden, hidden.Top(), "password")
	if !pw.Secret || pw.Revealed {
		t.Fatalf("password = %+v", pw)
	}
	out := hidden.Render(PlainStyles())
	if strings.Contains(out, "hunter2") || !strings.Contains(out, "password: ******") {
		t.Errorf("secret leaked:\n%s", out)
	}
	if sec := childByKey(t, hidden, hidden.Top(), "secret"); sec.Secret {
		t.Error("only leaves are redacted")
	}
	if err := hidden.Reveal(pw.ID); !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("Reveal err = %v, want FORBIDDEN", err)
	}

	allowed := New(value, Options{CanShowSecrets: true})
	pw = childByKey(t, allowed, allowed.Top(), "password")
	if strings.Contains(allowed.Render(PlainStyles()), "hunter2") {
		t.Error("secrets stay hidden until revealed")
	}
	if err := allowed.Reveal(pw.ID); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(allowed.Render(PlainStyles()), `password: "hunter2"`) {
		t.Error("revealed secret should render")
	}

	custom := New(value, Options{SecretKeys: []string{"user"}})
	if childByKey(t, custom, custom.Top(), "password").Secret || !childByKey(t, custom, custom.Top(), "user").Secret {
		t.Error("custom secret keys replace the defaults")
	}
}

func TestTemplates(t *testing.T) {
	tree := New(map[string]any{"valid-lifetime": 3600, "other": 3600}, Options{
		Templates: map[string]ValueRenderer{
			"valid-lifetime": func(_ string, v any) string { return "1h (" + strconv.Itoa(v.(int)) + "s)" },
		},
	})
	out := tree.Render(PlainStyles())
	if !strings.Contains(out, "valid-lifetime: 1h (3600s)") || !strings.Contains(out, "other: 3600") {
		t.Errorf("Render:\n%s", out)
	}
}

func TestRenderPlain(t *testing.T) {
	tree := New(map[string]any{
		"subnet":  "192.0.2.0/24",
		"pools":   []any{"a", "b"},
		"options": map[string]any{},
		"bad":     `{"x": 1`,
		"enabled": true,
		"ratio":   0.5,
		"none":    nil,
	}, Options{AutoExpand: AutoExpandNone})
	want := strings.Join([]string{
		"{7}",
		`    bad: "{\"x\": 1" (possibly corrupted)`,
		"    enabled: true",
		"    none: null",
		"  ▾ options: {}",
		"  ▸ pools: [2]",
		"    ratio: 0.5",
		`    subnet: "192.0.2.0/24"`,
	}, "\n")
	if got := tree.Render(PlainStyles()); got != want {
		t.Errorf("Render:\n%s\nwant:\n%s", got, want)
	}
}

func TestUnknownNode(t *testing.T) {
	tree := New("x", Options{})
	if _, err := tree.Node(99); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Node err = %v", err)
	}
	if _, err := tree.Toggle(-5); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Toggle err = %v", err)
	}
	if err := tree.RequestPage(tree.Top(), 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("RequestPage on a leaf: err = %v", err)
	}
}

func TestParseAutoExpand(t *testing.T) {
	tests := []struct {
		in   string
		want AutoExpand
		ok   bool
	}{
		{"none", AutoExpandNone, true},
		{"ALL", AutoExpandAll, true},
		{"25", AutoExpand{Max: 25}, true},
		{"-1", AutoExpand{}, false},
		{"some", AutoExpand{}, false},
	}
	for _, tt := range tests {
		got, err := ParseAutoExpand(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseAutoExpand(%q) = %+v, %v", tt.in, got, err)
		}
	}
}
