package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// DefaultPreviewPort is the default port for the preview server.
const DefaultPreviewPort = 9000

// PreviewPortRange defines the range of ports to try if default is unavailable.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Source   loader.Source
	Manifest *model.Manifest
	// Responsive classifies the width each request asks for.
	Responsive viewport.Config
	// Port is the port to serve on (0 for auto-select)
	Port   int
	Logger *slog.Logger
}

// PreviewServer serves the dataset as HTML laid out for any viewport
// width, so one browser tab can show the mobile, tablet and desktop
// decisions side by side. The source is reloaded on every request.
type PreviewServer struct {
	cfg  PreviewConfig
	port int
	log  *slog.Logger
}

// NewPreviewServer creates a preview server. The port is resolved when
// the server starts.
func NewPreviewServer(cfg PreviewConfig) *PreviewServer {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &PreviewServer{cfg: cfg, port: cfg.Port, log: log}
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// Handler returns the preview routes.
//
//	GET /                       HTML table (?width=&height= in pixels, ?mode=)
//	GET /chart.svg              the manifest's chart
//	GET /__preview__/status     server status as JSON
func (p *PreviewServer) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.Recoverer, noCacheMiddleware)
	r.Get("/", p.tableHandler)
	r.Get("/chart.svg", p.chartHandler)
	r.Get("/__preview__/status", p.statusHandler)
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (p *PreviewServer) Serve(ctx context.Context) error {
	if p.port == 0 {
		port, err := FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
		if err != nil {
			return fmt.Errorf("could not find available port: %w", err)
		}
		p.port = port
	}

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.port),
		Handler: p.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.log.Info("preview server running", "url", p.URL(), "source", p.cfg.Source.Name())

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.log.Debug("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// options reads the viewport and mode a request asks for.
func (p *PreviewServer) options(r *http.Request) (Options, error) {
	q := r.URL.Query()
	opts := Options{Manifest: p.cfg.Manifest, Mode: model.Mode(q.Get("mode"))}
	if opts.Mode != "" && !opts.Mode.IsValid() {
		return opts, fmt.Errorf("unknown mode %q", opts.Mode)
	}

	w, h := viewport.FallbackWidth, viewport.FallbackHeight
	if s := q.Get("width"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("invalid width %q", s)
		}
		w = n
	}
	if s := q.Get("height"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("invalid height %q", s)
		}
		h = n
	}
	cfg := p.cfg.Responsive
	if cfg.Validate() != nil {
		cfg = cfg.Sanitize()
	}
	opts.Viewport = viewport.GetViewportState(viewport.NewWindow(w, h), cfg)
	return opts, nil
}

func (p *PreviewServer) load(w http.ResponseWriter, r *http.Request) (model.Records, bool) {
	res, err := p.cfg.Source.Load(r.Context())
	if err != nil {
		p.log.Warn("preview load failed", "source", p.cfg.Source.Name(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return res.Records, true
}

func (p *PreviewServer) tableHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := p.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rs, ok := p.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Breakpoint", opts.Viewport.Breakpoint.String())
	fmt.Fprintf(w, "<!doctype html>\n<meta name=\"viewport\" content=\"width=device-width\">\n")
	if err := WriteTable(w, rs, FormatHTML, opts); err != nil {
		p.log.Warn("preview render failed", "error", err)
	}
}

func (p *PreviewServer) chartHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := p.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !p.cfg.Manifest.HasChart() {
		http.Error(w, ErrChartUnavailable.Error(), http.StatusNotFound)
		return
	}
	rs, ok := p.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := WriteChartSVG(w, rs, opts); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "running",
		"port":   p.port,
		"source": p.cfg.Source.Name(),
	})
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}
