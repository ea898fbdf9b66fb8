package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

const formatMermaid = "mermaid"

type diagramInfo struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	Direction string `json:"direction"`
	Nodes     int    `json:"nodes"`
	Clusters  int    `json:"clusters"`
	Edges     int    `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	out := make([]diagramInfo, len(s.diagrams))
	for i, d := range s.diagrams {
		out[i] = diagramInfo{
			Name:      d.Name(),
			Title:     d.Title(),
			Filename:  d.Filename(),
			Direction: string(d.Direction()),
			Nodes:     d.NodeCount(),
			Clusters:  d.ClusterCount(),
			Edges:     d.EdgeCount(),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"diagrams": out})
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, ok := s.lookup(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown diagram: "+name)
		return
	}

	q := r.URL.Query().Get("format")
	if q == formatMermaid {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(render.ToMermaid(d)))
		return
	}
	format, err := render.ParseFormat(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, errs.UserMessage(err))
		return
	}

	opts := pipeline.Options{Format: format, DPI: s.dpi, Logger: s.logger}
	if format == render.FormatDOT {
		dot, err := s.runner.DOT(d, opts)
		if err != nil {
			respondError(w, errs.HTTPStatus(err), errs.UserMessage(err))
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Write([]byte(dot))
		return
	}

	art, err := s.runner.Render(r.Context(), d, opts)
	if err != nil {
		s.logger.Error("render failed", "diagram", d.Name(), "error", err)
		respondError(w, errs.HTTPStatus(err), errs.UserMessage(err))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("X-Cache", cacheHeader(art.CacheHit))
	w.Write(art.Data)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": message,
	})
}
