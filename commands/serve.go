package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/export"
	"github.com/wireproto/amqspec/spec"
)

func newServeCmd() *cobra.Command {
	var specFile string
	var errata []string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiled spec over HTTP",
		Long: `Serve exposes the compiled model read-only over HTTP for runtime
consumers:

  GET /spec                    full spec document
  GET /classes/{class}         one class
  GET /methods/{class.method}  one method with its invocation contract
  GET /metrics                 Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				addr = cfg.Serve.Addr
			}

			s, err := compileFromFlags(specFile, errata)
			if err != nil {
				return err
			}

			srv := newSpecServer(s, prometheus.NewRegistry(), slog.Default())
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.listen(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config)")
	return cmd
}

// specServer is a read-only HTTP surface over one compiled spec. The model
// is immutable after loading, so handlers read it without locking.
type specServer struct {
	spec     *spec.Spec
	doc      *export.Document
	registry *prometheus.Registry
	logger   *slog.Logger

	requests *prometheus.CounterVec
	misses   prometheus.Counter
}

func newSpecServer(s *spec.Spec, registry *prometheus.Registry, logger *slog.Logger) *specServer {
	factory := promauto.With(registry)
	return &specServer{
		spec:     s,
		doc:      export.Build(s),
		registry: registry,
		logger:   logger,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amqspec_requests_total",
			Help: "Spec API requests by endpoint.",
		}, []string{"endpoint"}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "amqspec_lookup_misses_total",
			Help: "Spec API lookups that matched no entity.",
		}),
	}
}

// routes builds the read-only HTTP surface.
func (s *specServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /spec", s.handleSpec)
	mux.HandleFunc("GET /classes/{class}", s.handleClass)
	mux.HandleFunc("GET /methods/{method}", s.handleMethod)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *specServer) listen(ctx context.Context, addr string) error {

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving spec",
			slog.String("addr", addr),
			slog.String("label", s.spec.Label),
			slog.String("compile_id", s.doc.CompileID))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *specServer) handleSpec(w http.ResponseWriter, r *http.Request) {
	s.requests.WithLabelValues("spec").Inc()
	writeJSON(w, s.doc)
}

func (s *specServer) handleClass(w http.ResponseWriter, r *http.Request) {
	s.requests.WithLabelValues("class").Inc()
	name := r.PathValue("class")
	for i := range s.doc.Classes {
		if s.doc.Classes[i].Name == name {
			writeJSON(w, &s.doc.Classes[i])
			return
		}
	}
	s.misses.Inc()
	http.Error(w, fmt.Sprintf("unknown class: %s", name), http.StatusNotFound)
}

func (s *specServer) handleMethod(w http.ResponseWriter, r *http.Request) {
	s.requests.WithLabelValues("method").Inc()
	name := r.PathValue("method")
	m, err := s.spec.Method(name)
	if err != nil {
		s.misses.Inc()
		http.Error(w, fmt.Sprintf("unknown method: %s", name), http.StatusNotFound)
		return
	}

	cls, _, _ := strings.Cut(name, ".")
	for i := range s.doc.Classes {
		if s.doc.Classes[i].Name != strings.TrimSpace(cls) {
			continue
		}
		for j := range s.doc.Classes[i].Methods {
			if s.doc.Classes[i].Methods[j].Name == m.Name {
				writeJSON(w, &s.doc.Classes[i].Methods[j])
				return
			}
		}
	}
	s.misses.Inc()
	http.Error(w, fmt.Sprintf("unknown method: %s", name), http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
