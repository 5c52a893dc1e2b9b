package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sprite-ai/tmplsync/internal/config"
	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/merge"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Hunks ---

type fileRequest struct {
	Path     string `json:"path"`
	Current  string `json:"current"`
	Rendered string `json:"rendered"`
	Context  *int   `json:"context,omitempty"`
}

func (f fileRequest) request() model.FileDiffRequest {
	return model.FileDiffRequest{
		RelativePath:    f.Path,
		CurrentContent:  f.Current,
		RenderedContent: f.Rendered,
	}
}

// contextLines returns the requested context, or the default when unset.
func (f fileRequest) contextLines() (int, error) {
	if f.Context == nil {
		return diff.DefaultContext, nil
	}
	n := *f.Context
	if n < 0 || n > config.MaxContext {
		return 0, fmt.Errorf("context must be between 0 and %d", config.MaxContext)
	}
	return n, nil
}

type hunksResponse struct {
	Path      string        `json:"path"`
	Identical bool          `json:"identical"`
	Hunks     []hunkJSON    `json:"hunks"`
	Stats     diffStatsJSON `json:"stats"`
	Patch     string        `json:"patch,omitempty"`
}

type hunkJSON struct {
	Header   string     `json:"header"`
	Title    string     `json:"title"`
	OldStart int        `json:"old_start"`
	OldCount int        `json:"old_count"`
	NewStart int        `json:"new_start"`
	NewCount int        `json:"new_count"`
	Lines    []lineJSON `json:"lines"`
}

type lineJSON struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

type diffStatsJSON struct {
	Hunks   int `json:"hunks"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

func toHunkJSON(h diff.Hunk) hunkJSON {
	hj := hunkJSON{
		Header:   h.Header,
		Title:    h.Title(),
		OldStart: h.OldStart,
		OldCount: h.OldCount,
		NewStart: h.NewStart,
		NewCount: h.NewCount,
	}
	for _, l := range h.Lines {
		hj.Lines = append(hj.Lines, lineJSON{Op: l.Op.String(), Text: l.Text})
	}
	return hj
}

// decode reads and checks a fileRequest-shaped body. It writes the error
// response itself and reports whether the caller should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, f *fileRequest) (int, bool) {
	if err := readJSON(r, v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return 0, false
	}
	if f.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return 0, false
	}
	n, err := f.contextLines()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return n, true
}

func (s *Server) handleHunks(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	n, ok := s.decode(w, r, &req, &req)
	if !ok {
		return
	}

	dec := merge.NewDecider(model.Options{}, nil, nil, merge.WithContext(n), merge.WithLogger(s.logger))
	hunks, err := dec.Hunks(req.request())
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "computing hunks: "+err.Error())
		return
	}

	resp := hunksResponse{
		Path:      req.Path,
		Identical: req.Current == req.Rendered,
		Hunks:     []hunkJSON{},
	}
	for _, h := range hunks {
		added, removed := h.Counts()
		resp.Stats.Added += added
		resp.Stats.Removed += removed
		resp.Hunks = append(resp.Hunks, toHunkJSON(h))
	}
	resp.Stats.Hunks = len(hunks)
	if len(hunks) > 0 {
		resp.Patch = diff.FormatPatch(req.Path, hunks)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// --- Resolve ---

type resolveRequest struct {
	fileRequest
	Accept []bool `json:"accept"`
}

type resolveResponse struct {
	Decision string `json:"decision"`
	Content  string `json:"content,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	n, ok := s.decode(w, r, &req, &req.fileRequest)
	if !ok {
		return
	}

	dec := merge.NewDecider(model.Options{}, nil, nil, merge.WithContext(n), merge.WithLogger(s.logger))
	d, err := dec.Resolve(req.request(), req.Accept)
	switch {
	case errors.Is(err, merge.ErrAcceptLength):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, resolveResponse{Decision: d.String(), Content: d.Content})
}
