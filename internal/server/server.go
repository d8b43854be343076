// Package server exposes chart parsing and layout over HTTP. Parsed charts
// are kept in memory and laid out on request.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/cbegin/dtxchart-go/internal/chartio"
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
	"github.com/cbegin/dtxchart-go/internal/midiexport"
	"github.com/cbegin/dtxchart-go/internal/render"
)

type Options struct {
	// Encoding is the label used when a request carries no ?encoding=.
	Encoding string
	Dialect  dtx.Dialect
	// AssetDir is passed to the PDF renderer.
	AssetDir string
	Logger   *log.Logger
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type CreatedResponse struct {
	ID       string       `json:"id"`
	SongInfo dtx.SongInfo `json:"songInfo"`
}

type Server struct {
	mu     sync.RWMutex
	charts map[string]*dtx.Chart

	opts   Options
	parser *dtx.Parser
	pos    *layout.Positioner
	router *mux.Router
	logger *log.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		charts: make(map[string]*dtx.Chart),
		opts:   opts,
		parser: dtx.NewParser(dtx.ParserConfig{Dialect: opts.Dialect, Logger: logger}),
		pos:    layout.New(geometry.NewTable(logger), logger),
		logger: logger,
	}
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/charts", s.handleCreate).Methods("POST")
	r.HandleFunc("/charts/{id}", s.handleGet).Methods("GET")
	r.HandleFunc("/charts/{id}", s.handleDelete).Methods("DELETE")
	r.HandleFunc("/charts/{id}/layout", s.handleLayout).Methods("GET")
	r.HandleFunc("/charts/{id}/pdf", s.handlePDF).Methods("GET")
	r.HandleFunc("/charts/{id}/midi", s.handleMIDI).Methods("GET")
	s.router = r
	return s
}

// Handler returns the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(cors.Default().Handler(s.router))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Printf("listening on %s", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, chartio.MaxChartSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.Wrap(err, "read body"))
		return
	}
	if len(raw) > chartio.MaxChartSize {
		writeError(w, http.StatusRequestEntityTooLarge, pkgerrors.Errorf("chart is larger than %d bytes", chartio.MaxChartSize))
		return
	}
	label := r.URL.Query().Get("encoding")
	if label == "" {
		label = s.opts.Encoding
	}
	text, err := chartio.Decode(raw, label)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	chart, err := s.parser.Parse(text)
	if err != nil {
		writeError(w, parseStatus(err), err)
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.charts[id] = chart
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, SongInfo: chart.SongInfo})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if chart, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, chart)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	_, ok := s.charts[id]
	delete(s.charts, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, pkgerrors.Errorf("chart %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	canvases, ok := s.layout(w, r)
	if ok {
		writeJSON(w, http.StatusOK, canvases)
	}
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	canvases, ok := s.layout(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.PDF(&buf, canvases, render.Options{AssetDir: s.opts.AssetDir}); err != nil {
		s.logger.Printf("render pdf: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return
	}
	game := geometry.GameDrum
	if v := r.URL.Query().Get("gameMode"); v != "" {
		g, err := geometry.ParseGameMode(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		game = g
	}
	file, err := midiexport.Build(chart, layout.InstrumentFor(game))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	if _, err := file.WriteTo(w); err != nil {
		s.logger.Printf("write midi: %v", err)
	}
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) ([]layout.Canvas, bool) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return nil, false
	}
	cfg, err := drawingConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	canvases, err := s.pos.Compute(chart, cfg)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, layout.ErrEmptyChart) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return nil, false
	}
	return canvases, true
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*dtx.Chart, bool) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	chart, ok := s.charts[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, pkgerrors.Errorf("chart %s not found", id))
	}
	return chart, ok
}

// drawingConfig reads layout options from the query over the defaults.
func drawingConfig(r *http.Request) (layout.DrawingConfig, error) {
	cfg := layout.DefaultDrawingConfig()
	q := r.URL.Query()
	var err error
	if v := q.Get("gameMode"); v != "" {
		if cfg.GameMode, err = geometry.ParseGameMode(v); err != nil {
			return cfg, err
		}
	}
	if v := q.Get("chartMode"); v != "" {
		if cfg.ChartMode, err = geometry.ParseChartMode(v); err != nil {
			return cfg, err
		}
	}
	if v := q.Get("scale"); v != "" {
		if cfg.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, pkgerrors.Wrap(err, "scale")
		}
	}
	if v := q.Get("maxHeight"); v != "" {
		if cfg.MaxHeight, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, pkgerrors.Wrap(err, "maxHeight")
		}
	}
	if v := q.Get("difficulty"); v != "" {
		cfg.Difficulty = layout.DifficultyLabel(v)
	}
	if v := q.Get("levelShown"); v != "" {
		if cfg.LevelShown, err = strconv.ParseBool(v); err != nil {
			return cfg, pkgerrors.Wrap(err, "levelShown")
		}
	}
	return cfg, cfg.Validate()
}

func parseStatus(err error) int {
	var pe *dtx.ParseError
	if errors.Is(err, dtx.ErrNoTitle) || errors.As(err, &pe) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
