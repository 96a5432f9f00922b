// Package server serves the timeline page, its dataset and the daily-count
// chart over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/counts"
	"github.com/matheuskafuri/devtimeline/internal/render"
)

// Loader produces the dataset once, before the server starts answering.
type Loader func(ctx context.Context) (*article.Dataset, error)

type Options struct {
	Addr        string
	ReadTimeout time.Duration
	Layout      chart.Layout
	Page        render.PageOpts
}

type Server struct {
	opts    Options
	log     logrus.FieldLogger
	reg     *prometheus.Registry
	metrics *metrics

	mu    sync.RWMutex
	ds    *article.Dataset
	scene *chart.Scene
	days  []counts.Day
}

func New(opts Options, log logrus.FieldLogger) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	reg := prometheus.NewRegistry()
	return &Server{
		opts:    opts,
		log:     log,
		reg:     reg,
		metrics: newMetrics(reg),
	}
}

// Load runs loader and lays out the scene served by every later request.
func (s *Server) Load(ctx context.Context, loader Loader) error {
	ds, err := loader(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	scene, err := chart.Build(ds, s.opts.Layout)
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	s.mu.Lock()
	s.ds = ds
	s.scene = scene
	s.days = counts.Daily(ds.Records())
	s.mu.Unlock()

	s.metrics.datasetRecords.Set(float64(ds.Len()))
	s.log.WithField("records", ds.Len()).Info("dataset loaded")
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /data.json", s.handleData)
	mux.HandleFunc("GET /counts", s.handleCounts)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

// Run loads the dataset, then serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, loader Loader) error {
	if err := s.Load(ctx, loader); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve answers on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("serving timeline")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) snapshot() (*article.Dataset, *chart.Scene, []counts.Day) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.scene, s.days
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, scene, _ := s.snapshot()
	if scene == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}
	s.renderPage(w, "chart", "text/html; charset=utf-8", func(buf *bytes.Buffer) error {
		return render.WriteHTML(buf, scene, s.opts.Page)
	})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	_, _, days := s.snapshot()
	if days == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}
	s.renderPage(w, "counts", "text/html; charset=utf-8", func(buf *bytes.Buffer) error {
		return counts.WriteBarChart(buf, days, counts.DefaultTitle)
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ds, _, _ := s.snapshot()
	if ds == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}
	s.renderPage(w, "data", "application/json", func(buf *bytes.Buffer) error {
		return article.Encode(buf, ds.Records())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// renderPage buffers the body so a render failure still yields a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, page, contentType string, fn func(*bytes.Buffer) error) {
	timer := prometheus.NewTimer(s.metrics.renderDuration.WithLabelValues(page))
	var buf bytes.Buffer
	err := fn(&buf)
	timer.ObserveDuration()
	if err != nil {
		s.log.WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.metrics.pageRenders.WithLabelValues(page).Inc()
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}
