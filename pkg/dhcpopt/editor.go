package dhcpopt

import (
	"slices"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
)

// Editor holds the option-set forms of a record configured on several
// servers. It starts with one unified form shared by all servers and can be
// split into independent per-server copies.
type Editor struct {
	servers   []string
	unified   *form.Array
	perServer map[string]*form.Array
}

// EditorState is a detached copy of an editor's forms.
type EditorState struct {
	servers   []string
	unified   *form.Array
	perServer map[string]*form.Array
}

// NewEditor creates an editor over options for servers. A nil options
// array starts an empty form.
func NewEditor(options *form.Array, servers ...string) *Editor {
	if options == nil {
		options = form.NewArray()
	}
	return &Editor{
		servers: append([]string(nil), servers...),
		unified: options,
	}
}

// Servers returns the server names in the order given to NewEditor.
func (e *Editor) Servers() []string {
	return append([]string(nil), e.servers...)
}

// IsSplit reports whether every server has its own form.
func (e *Editor) IsSplit() bool {
	return e.perServer != nil
}

// SplitPerServer gives each server an independent clone of the unified
// form. It is a no-op when the editor is already split.
func (e *Editor) SplitPerServer() error {
	if e.IsSplit() {
		return nil
	}
	perServer := make(map[string]*form.Array, len(e.servers))
	for _, s := range e.servers {
		c, err := form.CloneAs(e.unified)
		if err != nil {
			return err
		}
		perServer[s] = c
	}
	e.perServer = perServer
	return nil
}

// Unify drops the per-server forms and continues with a clone of the first
// server's form.
func (e *Editor) Unify() error {
	if !e.IsSplit() {
		return nil
	}
	if len(e.servers) > 0 {
		c, err := form.CloneAs(e.perServer[e.servers[0]])
		if err != nil {
			return err
		}
		e.unified = c
	}
	e.perServer = nil
	return nil
}

// Form returns the form edited for server. Before a split every server
// shares the unified form.
func (e *Editor) Form(server string) (*form.Array, error) {
	if !slices.Contains(e.servers, server) {
		return nil, errors.New(errors.ErrCodeNotFound, "server %q is not part of this record", server)
	}
	if e.IsSplit() {
		return e.perServer[server], nil
	}
	return e.unified, nil
}

// Serialize processes the form of every server.
func (e *Editor) Serialize(universe Universe) (map[string][]SerializedOption, error) {
	out := make(map[string][]SerializedOption, len(e.servers))
	for _, s := range e.servers {
		arr, err := e.Form(s)
		if err != nil {
			return nil, err
		}
		f := NewOptionSetForm(arr)
		if err := f.Process(universe); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "server %s", s)
		}
		out[s], _ = f.SerializedOptions()
	}
	return out, nil
}

// Snapshot captures the current forms so that they survive the editor
// being discarded.
func (e *Editor) Snapshot() (*EditorState, error) {
	unified, perServer, err := cloneForms(e.unified, e.perServer)
	if err != nil {
		return nil, err
	}
	return &EditorState{
		servers:   append([]string(nil), e.servers...),
		unified:   unified,
		perServer: perServer,
	}, nil
}

// Restore replaces the editor's forms with clones of a snapshot. The
// snapshot stays usable for further restores.
func (e *Editor) Restore(s *EditorState) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no editor state to restore")
	}
	unified, perServer, err := cloneForms(s.unified, s.perServer)
	if err != nil {
		return err
	}
	e.servers = append([]string(nil), s.servers...)
	e.unified = unified
	e.perServer = perServer
	return nil
}

func cloneForms(unified *form.Array, perServer map[string]*form.Array) (*form.Array, map[string]*form.Array, error) {
	u, err := form.CloneAs(unified)
	if err != nil {
		return nil, nil, err
	}
	if perServer == nil {
		return u, nil, nil
	}
	ps := make(map[string]*form.Array, len(perServer))
	for name, arr := range perServer {
		c, err := form.CloneAs(arr)
		if err != nil {
			return nil, nil, err
		}
		ps[name] = c
	}
	return u, ps, nil
}
