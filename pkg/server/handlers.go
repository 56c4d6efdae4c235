package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/whtopo/pkg/buildinfo"
	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/render/nodelink"
)

// Response headers describing a layout run.
const (
	HeaderRanks     = "X-Layout-Ranks"
	HeaderCrossings = "X-Layout-Crossings"
	HeaderCache     = "X-Cache"
)

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"layouts": layout.Names()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := layout.Get(name, s.cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := wio.ReadDocument(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.layouts.Run(r.Context(), name, s.cfg, doc.Nodes, doc.Edges)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(HeaderRanks, strconv.Itoa(res.Ranks))
	w.Header().Set(HeaderCrossings, strconv.Itoa(res.Crossings))
	if hit {
		w.Header().Set(HeaderCache, "HIT")
	} else {
		w.Header().Set(HeaderCache, "MISS")
	}
	writeJSON(w, http.StatusOK, wio.NewDocument(res.Nodes, res.Edges))
}

// handleImport converts topology JSON to a document. An optional ?layout=
// strategy is applied to the imported grid.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	nodes, edges, err := wio.ReadTopology(r.Body, wio.Options{Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if name := r.URL.Query().Get("layout"); name != "" {
		res, _, err := s.layouts.Run(r.Context(), name, s.cfg, nodes, edges)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		nodes, edges = res.Nodes, res.Edges
	}
	writeJSON(w, http.StatusOK, wio.NewDocument(nodes, edges))
}

// handleExport converts a document to topology JSON. ?whId= sets the
// warehouse ID.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var opts wio.Options
	if raw := r.URL.Query().Get("whId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "whId"))
			return
		}
		opts.WarehouseID = id
	}

	doc, err := wio.ReadDocument(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := wio.WriteTopology(w, doc.Nodes, doc.Edges, opts); err != nil {
		s.logger.Error("write topology", "err", err)
	}
}

// handleRender draws a document as SVG, or returns the DOT source when
// ?format=dot.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := wio.ReadDocument(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := nodelink.ToDOT(doc.Nodes, doc.Edges, nodelink.Options{})

	switch format := r.URL.Query().Get("format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "", "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", format))
	}
}
