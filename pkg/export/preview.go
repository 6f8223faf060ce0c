package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// DefaultPreviewPort is the default port for the preview server.
const DefaultPreviewPort = 9000

// PreviewPortRange defines the range of ports to try if default is unavailable.
const PreviewPortRangeStart = 9000
const PreviewPortRangeEnd = 9100

// PreviewServer serves dashboard wireframes for device presets over HTTP.
type PreviewServer struct {
	port      int
	dashboard func() *model.Dashboard
	opts      []responsive.Option
	log       *zap.Logger
	server    *http.Server
}

// NewPreviewServer creates a preview server. dashboard is called per request
// so a reloaded dashboard shows up without restarting.
func NewPreviewServer(port int, dashboard func() *model.Dashboard, log *zap.Logger, opts ...responsive.Option) *PreviewServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &PreviewServer{
		port:      port,
		dashboard: dashboard,
		opts:      opts,
		log:       log,
	}
}

// Handler returns the HTTP routes of the server.
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.indexHandler)
	mux.HandleFunc("/wireframe.svg", p.wireframeHandler(FormatSVG, "image/svg+xml"))
	mux.HandleFunc("/wireframe.png", p.wireframeHandler(FormatPNG, "image/png"))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return noCacheMiddleware(mux)
}

// Start serves until ctx is done, then shuts down gracefully.
func (p *PreviewServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p.port))
	if err != nil {
		return fmt.Errorf("unable to listen on port %d: %w", p.port, err)
	}
	if p.port == 0 {
		p.port = ln.Addr().(*net.TCPAddr).Port
	}

	p.server = &http.Server{
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- p.server.Serve(ln)
	}()
	p.log.Info("Preview server running", zap.String("url", p.URL()))

	select {
	case <-ctx.Done():
		p.log.Info("Shutting down preview server")
		if err := p.Stop(); err != nil {
			return err
		}
		<-errChan
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>{{.Title}} wireframes</title>
<style>body{background:#1e1f29;color:#f8f8f2;font-family:sans-serif}figure{display:inline-block;margin:1em;vertical-align:top}img{border:1px solid #44475a}</style>
</head><body><h1>{{.Title}}</h1>
{{range .Presets}}<figure><img src="/wireframe.svg?device={{.Name}}" alt="{{.Name}}"><figcaption>{{.Name}} {{.Viewport}}</figcaption></figure>
{{end}}</body></html>
`))

func (p *PreviewServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var presets []Preset
	for _, ps := range Presets {
		presets = append(presets, ps)
		if rotated, ok := LookupPreset(ps.Name + "-landscape"); ok {
			presets = append(presets, rotated)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, struct {
		Title   string
		Presets []Preset
	}{p.dashboard().Title, presets})
	if err != nil {
		p.log.Warn("Unable to render index", zap.Error(err))
	}
}

func (p *PreviewServer) wireframeHandler(f Format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := viewportFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if err := Render(&buf, f, v, p.dashboard(), p.opts...); err != nil {
			if errors.Is(err, responsive.ErrInvalidDimension) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			p.log.Error("Unable to render wireframe", zap.Stringer("viewport", v), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(buf.Bytes())
	}
}

// viewportFromQuery reads either ?device=<preset> or ?w=&h=.
func viewportFromQuery(r *http.Request) (responsive.Viewport, error) {
	q := r.URL.Query()
	if name := q.Get("device"); name != "" {
		ps, ok := LookupPreset(name)
		if !ok {
			return responsive.Viewport{}, fmt.Errorf("unknown device %q", name)
		}
		return ps.Viewport, nil
	}
	if q.Get("w") == "" && q.Get("h") == "" {
		return Presets[0].Viewport, nil
	}

	w, err := strconv.ParseFloat(q.Get("w"), 64)
	if err != nil {
		return responsive.Viewport{}, fmt.Errorf("bad width: %w", err)
	}
	h, err := strconv.ParseFloat(q.Get("h"), 64)
	if err != nil {
		return responsive.Viewport{}, fmt.Errorf("bad height: %w", err)
	}
	return responsive.Viewport{Width: w, Height: h}, nil
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	d := p.dashboard()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "running",
		"port":    p.port,
		"title":   d.Title,
		"cards":   len(d.Cards),
		"actions": len(d.Actions),
		"presets": len(Presets),
	})
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

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

// OpenInBrowser opens url with the platform's default handler.
func OpenInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
