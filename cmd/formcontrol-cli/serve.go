package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/httpcontrol"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(app *appOptions) *cobra.Command {
	var (
		addr     string
		redirect string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the control over HTTP",
		Long: `Serve the control under /<name>. Valid submissions to /<name>/{id} are kept
in memory and reloaded by GET /<name>/{id}. Configured events are logged and
counted; metrics are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			document, err := app.document(cmd.Context())
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			dispatcher := events.NewDispatcher(
				events.WithLogger(logger),
				events.WithMetrics(reg, "formcontrol"),
			)
			rt, store, err := app.runtime(logger, dispatcher)
			if err != nil {
				return err
			}
			if err := subscribeConfigured(dispatcher, store, logger); err != nil {
				return err
			}

			records := newRecordStore()
			handler := httpcontrol.New(func(r *http.Request) (*control.FormControl, error) {
				ctrl, err := app.newControl(r.Context(), rt, document)
				if err != nil {
					return nil, err
				}
				ctrl.SetValuesLoader(records.load)
				if id := chi.URLParam(r, "id"); id != "" {
					f, err := ctrl.Form(r.Context())
					if err != nil {
						return nil, err
					}
					f.OnSuccess = append(f.OnSuccess, records.saveHandler(id))
				}
				return ctrl, nil
			},
				httpcontrol.WithLogger(logger),
				httpcontrol.WithSuccessRedirect(redirect),
			)

			router := chi.NewRouter()
			router.Use(middleware.RequestID, middleware.Recoverer)
			router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			router.Route("/"+app.name, handler.Mount)

			return listen(cmd.Context(), &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&redirect, "redirect", "", "redirect target after a valid non-ajax submission")

	return cmd
}

// subscribeConfigured logs every event name found in the configuration.
func subscribeConfigured(dispatcher *events.Dispatcher, store *config.Store, logger *slog.Logger) error {
	seen := map[string]bool{}
	for _, name := range store.Names() {
		cfg, _ := store.Lookup(name)
		for _, event := range []string{cfg.OnError, cfg.OnValidate, cfg.OnSubmit, cfg.OnSuccess} {
			if event == "" || seen[event] {
				continue
			}
			seen[event] = true
			if err := dispatcher.Subscribe(event, logListener(logger)); err != nil {
				return err
			}
		}
	}
	return nil
}

func logListener(logger *slog.Logger) events.Listener {
	return func(ctx context.Context, event any) error {
		ev, ok := event.(*events.FormEvent)
		if !ok {
			logger.InfoContext(ctx, "form event", slog.Any("payload", event))
			return nil
		}
		attrs := []any{slog.String("event", ev.Name), slog.Any("values", ev.Values())}
		if ctrl, ok := ev.Control.(*control.FormControl); ok {
			attrs = append(attrs, slog.String("control", ctrl.Name()))
		}
		if ev.Form != nil {
			attrs = append(attrs, slog.Bool("valid", ev.Form.IsValid()))
		}
		logger.InfoContext(ctx, "form event", attrs...)
		return nil
	}
}

func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// recordStore keeps submitted values per record id for the lifetime of the
// process.
type recordStore struct {
	mu      sync.RWMutex
	records map[string]form.Values
}

func newRecordStore() *recordStore {
	return &recordStore{records: make(map[string]form.Values)}
}

func (s *recordStore) load(_ context.Context, id any) (form.Values, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[fmt.Sprint(id)], nil
}

func (s *recordStore) saveHandler(id string) form.Handler {
	return func(_ context.Context, f *form.Form) error {
		s.mu.Lock()
		s.records[id] = f.Values()
		s.mu.Unlock()
		return nil
	}
}
