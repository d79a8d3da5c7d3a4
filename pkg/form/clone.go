package form

import (
	"github.com/matzehuels/dhcpdash/pkg/errors"
)

// MetaCloner is implemented by group metadata that needs more than a plain
// copy when its group is cloned.
type MetaCloner interface {
	CloneMeta() any
}

// Clone returns a deep structural copy of n.
//
// Groups and arrays are recreated with the same validators and their children
// cloned in order; controls are recreated with the same validators and a copy
// of their value ([CopyValue]). Disabled, touched and dirty flags are copied
// onto every cloned node. The source tree is never modified.
//
// Clone returns an UNEXPECTED_CONTROL error when n, or any node below it, is
// nil.
func Clone(n Node) (Node, error) {
	var out Node
	switch c := n.(type) {
	case *Group:
		if c == nil {
			return nil, unexpectedControl()
		}
		g := NewGroup(c.validators...)
		g.Meta = cloneMeta(c.Meta)
		for _, name := range c.names {
			child, err := Clone(c.controls[name])
			if err != nil {
				return nil, err
			}
			g.Set(name, child)
		}
		out = g
	case *Array:
		if c == nil {
			return nil, unexpectedControl()
		}
		a := NewArray(c.validators...)
		for _, ctrl := range c.controls {
			child, err := Clone(ctrl)
			if err != nil {
				return nil, err
			}
			a.Append(child)
		}
		out = a
	case *Control:
		if c == nil {
			return nil, unexpectedControl()
		}
		out = NewControl(CopyValue(c.value), c.validators...)
	default:
		return nil, unexpectedControl()
	}
	copyState(out, n)
	return out, nil
}

// CloneAs is Clone for callers that hold a concrete node type.
func CloneAs[T Node](n T) (T, error) {
	var zero T
	out, err := Clone(n)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func cloneMeta(meta any) any {
	if mc, ok := meta.(MetaCloner); ok {
		return mc.CloneMeta()
	}
	return meta
}

func unexpectedControl() error {
	return errors.New(errors.ErrCodeUnexpectedControl, "unexpected control value")
}
