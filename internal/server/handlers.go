package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/huangsam/benchgrid/core/agg"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/outwriter"
	"github.com/huangsam/benchgrid/internal/render"
	"github.com/huangsam/benchgrid/schema"
)

// snapshotInfo is the body of GET /api/snapshot.
type snapshotInfo struct {
	Seq       uint64    `json:"seq"`
	FetchedAt time.Time `json:"fetched_at"`
	Reports   int       `json:"reports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshots.Current()
	writeJSONResponse(w, http.StatusOK, snapshotInfo{Seq: snap.Seq, FetchedAt: snap.FetchedAt, Reports: len(snap.Reports)})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	strategy, err := s.strategyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sections, err := s.Sections(s.snapshots.Current(), strategy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail := r.URL.Query().Get("detail") == "true"
	writeJSONResponse(w, http.StatusOK, outwriter.ToSectionOutputs(sections, detail))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	view, ok := strings.CutSuffix(file, ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	chart, err := render.NewChart(schema.ChartView(view), s.width)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	strategy, err := s.strategyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sections, err := s.Sections(s.snapshots.Current(), strategy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.Render(w, sections); err != nil {
		s.logger.Error("chart render failed", "view", view, "error", err)
	}
}

// strategyFromQuery overlays the request's query parameters on the defaults.
func (s *Server) strategyFromQuery(r *http.Request) (agg.Strategy, error) {
	q := r.URL.Query()
	st, err := s.defaults.Override(q.Get)
	if err != nil {
		return st, err
	}
	if v := q.Get("row_height"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h <= 0 || h > contract.MaxRowHeight {
			return st, fmt.Errorf("invalid row_height '%s'", v)
		}
		st.RowHeight = h
	}
	return st, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSONResponse(w, status, map[string]string{"error": err.Error()})
}
