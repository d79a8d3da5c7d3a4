package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/dhcpdash/pkg/dhcpopt"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// Problem is a validation failure of a decoded form.
type Problem struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// DecodeResponse is returned by the decode endpoint.
type DecodeResponse struct {
	Form     any               `json:"form"`
	Problems []Problem         `json:"problems"`
	Names    map[string]string `json:"names"`
}

// TreeRequest is the body of the tree endpoint.
type TreeRequest struct {
	Value      any    `json:"value"`
	Key        string `json:"key,omitempty"`
	AutoExpand string `json:"autoExpand,omitempty"`
	ForceOpen  bool   `json:"forceOpen,omitempty"`
}

// TreeResponse is returned by the tree endpoint.
type TreeResponse struct {
	Lines []string `json:"lines"`
	Nodes int      `json:"nodes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: errors.UserMessage(err)})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

// queryUniverse reads ?universe, falling back to def.
func queryUniverse(r *http.Request, def dhcpopt.Universe) (dhcpopt.Universe, error) {
	v := r.URL.Query().Get("universe")
	if v == "" {
		return def, nil
	}
	return dhcpopt.ParseUniverse(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSerialize turns an option document into wire options. TOML bodies
// are recognized by their content type; anything else is read as JSON.
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := dhcpopt.FormatJSON
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); strings.HasSuffix(mt, "toml") {
		format = dhcpopt.FormatTOML
	}
	doc, err := dhcpopt.ParseDocument(data, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	universe, err := queryUniverse(r, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if universe == 0 && doc.Universe == 0 {
		universe = s.cfg.Universe
	}
	options, err := doc.Serialize(universe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// handleDecode turns wire options into the editable form, together with the
// form's validation problems and the standard names of the option codes.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	universe, err := queryUniverse(r, s.cfg.Universe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var options []dhcpopt.SerializedOption
	if err := json.Unmarshal(data, &options); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode wire options"))
		return
	}
	arr, err := dhcpopt.FormFromOptions(options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := DecodeResponse{
		Form:     form.RawValue(arr),
		Problems: []Problem{},
		Names:    map[string]string{},
	}
	for _, p := range form.Validate(arr) {
		resp.Problems = append(resp.Problems, Problem{Path: p.Path, Error: p.Err.Error()})
	}
	for _, o := range options {
		if name := dhcpopt.OptionName(universe, o.Code); name != "" {
			resp.Names[strconv.Itoa(o.Code)] = name
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTree renders a JSON value with the configured tree settings. With
// ?format=text the lines are returned as plain text.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req TreeRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree request"))
		return
	}

	opts := s.cfg.TreeOptions()
	opts.Key = req.Key
	opts.ForceOpen = req.ForceOpen
	if req.AutoExpand != "" {
		if opts.AutoExpand, err = jsontree.ParseAutoExpand(req.AutoExpand); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	tree := jsontree.New(req.Value, opts)

	styles := jsontree.PlainStyles()
	visible := tree.Visible()
	lines := make([]string, len(visible))
	for i, n := range visible {
		lines[i] = tree.RenderLine(n, styles)
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, strings.Join(lines, "\n")+"\n")
		return
	}
	writeJSON(w, http.StatusOK, TreeResponse{Lines: lines, Nodes: tree.Size()})
}
