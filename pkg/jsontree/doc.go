// Package jsontree renders arbitrary JSON-like values as collapsible trees.
//
// A [Tree] is built over a value and keeps its nodes in an arena. Children
// are created only for open nodes, and only for the current page of wide
// nodes ([DefaultPageSize] per page). Nodes [MaxRecursionLevel] levels deep
// become "load more" placeholders until [Tree.LoadMore] is called on them.
// Leaves stored under a secret key are redacted until [Tree.Reveal].
//
// Page changes take two steps: [Tree.RequestPage] marks the node as loading
// and [Tree.ApplyPage] swaps in the new children. A caller with an event
// loop applies the page on its next iteration so the loading state can be
// shown in between.
//
// Malformed values never cause errors. Unknown types render as primitives
// and suspicious strings or mixed arrays are only flagged ([IsCorrupted]).
//
//	t := jsontree.New(value, jsontree.Options{AutoExpand: jsontree.AutoExpandAll})
//	fmt.Println(t.Render(jsontree.DefaultStyles()))
package jsontree
