// Package form models an editable form as a tree of nodes.
//
// A form is built from three node kinds:
//   - [Group]: named child nodes, kept in insertion order
//   - [Array]: ordered child nodes
//   - [Control]: a single value
//
// Every node carries its validators and the editing state a user interface
// tracks for it (disabled, touched, dirty). [Node] is a closed set: the
// interface has an unexported method, so only the three kinds above satisfy
// it and code can dispatch with a type switch.
//
// # Cloning
//
// [Clone] produces a deep structural copy of a node tree. Validators are
// shared with the source (they are immutable functions), slice values held
// by controls are copied into new slices, and the disabled, touched and dirty
// flags are propagated explicitly after construction. Group metadata that
// implements [MetaCloner] is cloned through it, so domain data attached to a
// group (for example generated input identifiers) can be regenerated for the
// copy.
//
// Cloning is the building block for preserving edits across the teardown and
// recreation of an editor, and for duplicating one target's settings into an
// independent form for another target.
//
//	unified := form.NewArray()
//	// ... populate ...
//	perServer, err := form.CloneAs(unified)
//	if err != nil {
//	    return err
//	}
//
// # Values
//
// [RawValue] extracts the plain value tree of a node (maps for groups,
// slices for arrays, values for controls). [Validate] runs validators over
// the enabled part of a tree and reports failures by path.
package form
