package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/g6viz/pkg/archive"
	"github.com/matzehuels/g6viz/pkg/buildinfo"
	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/pipeline"
	"github.com/matzehuels/g6viz/pkg/style"
)

// renderRequest is the body of POST /render.
type renderRequest struct {
	Graph6          string          `json:"graph6"`
	Highlight       string          `json:"highlight,omitempty"`
	HighlightGraph6 string          `json:"highlight_graph6,omitempty"`
	Style           json.RawMessage `json:"style,omitempty"`
	Format          string          `json:"format,omitempty"`
	Seed            uint64          `json:"seed,omitempty"`
	Width           float64         `json:"width,omitempty"`
	Height          float64         `json:"height,omitempty"`
	Iterations      int             `json:"iterations,omitempty"`
	Grid            string          `json:"grid,omitempty"`
	Title           string          `json:"title,omitempty"`
}

// options converts the request into pipeline options.
func (req renderRequest) options() (pipeline.Options, error) {
	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	grid, err := layout.ParseGridKind(req.Grid)
	if err != nil {
		return pipeline.Options{}, err
	}
	st := style.Default()
	if len(bytes.TrimSpace(req.Style)) > 0 && !bytes.Equal(bytes.TrimSpace(req.Style), []byte("null")) {
		if st, err = style.Decode(req.Style, style.FormatJSON); err != nil {
			return pipeline.Options{}, err
		}
	}
	return pipeline.Options{
		Graph6:          req.Graph6,
		Highlight:       req.Highlight,
		HighlightGraph6: req.HighlightGraph6,
		Layout: layout.Options{
			Width:      req.Width,
			Height:     req.Height,
			Iterations: req.Iterations,
			Seed:       req.Seed,
			Grid:       layout.Grid{Kind: grid},
		},
		Style:   st,
		Formats: []string{format},
		Title:   req.Title,
	}, nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

// POST /render
func (s *Server) renderPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req renderRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	s.render(w, r, req)
}

// GET /render/{graph6}
func (s *Server) renderGet(w http.ResponseWriter, r *http.Request) {
	g6, err := url.PathUnescape(chi.URLParam(r, "graph6"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid graph6 path segment"))
		return
	}
	q := r.URL.Query()
	req := renderRequest{
		Graph6:          g6,
		Highlight:       q.Get("highlight"),
		HighlightGraph6: q.Get("highlight_g6"),
		Format:          q.Get("format"),
		Grid:            q.Get("grid"),
		Title:           q.Get("title"),
	}
	if v := q.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v))
			return
		}
	}
	s.render(w, r, req)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, req renderRequest) {
	opts, err := req.options()
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	format := opts.Formats[0]

	if s.archive != nil {
		rec := archive.NewRecord(res.Graph6, format)
		rec.Vertices = res.Stats.Vertices
		rec.Edges = res.Stats.Edges
		rec.Highlight = res.Highlight.String()
		rec.Hash = res.GraphHash
		if err := s.archive.Save(r.Context(), rec); err != nil {
			s.logger.Warn("archive save failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		} else {
			w.Header().Set("X-Render-ID", rec.ID)
		}
	}

	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// GET /renders
func (s *Server) listRenders(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "archive not configured"))
		return
	}
	limit := archive.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = min(n, 500)
	}
	recs, err := s.archive.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []archive.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"renders": recs})
}

// GET /renders/{id}
func (s *Server) getRender(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "archive not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.archive.Get(r.Context(), id)
	if stderrors.Is(err, archive.ErrNotFound) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "render %s not found", id))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph6, errors.ErrCodeInvalidVertex,
		errors.ErrCodeInvalidSelector, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownVertex, errors.ErrCodeUnknownEdge:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	switch {
	case code != "":
	case stderrors.Is(err, context.DeadlineExceeded):
		code, msg = errors.ErrCodeTimeout, "render timed out"
	default:
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"code":%q,"message":"encode response"}`, errors.ErrCodeInternal)
	}
}
