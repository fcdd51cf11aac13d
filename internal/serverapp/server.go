// Package serverapp assembles the todofast HTTP application: storage,
// task store, API routes and the embedded single-screen UI.
package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todofast/internal/config"
	"todofast/internal/kv"
	"todofast/internal/task"
	staticfiles "todofast/static"
)

type Options struct {
	Config        *config.Config
	Logger        *log.Logger
	UseDiskStatic bool
	StaticDir     string
}

// NewHandler wires the application together. The returned store is exposed
// so callers (tests, CLIs) can reach the state behind the handler.
func NewHandler(opts Options) (http.Handler, *task.Store, error) {
	if opts.Config == nil {
		return nil, nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}

	var backend kv.Store
	if strings.TrimSpace(opts.Config.Storage.DataDir) == "" {
		opts.Logger.Printf("no data dir configured, tasks are in-memory only")
		backend = kv.NewMemoryStore()
	} else {
		fileStore, err := kv.NewFileStore(opts.Config.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		backend = fileStore
	}

	store := task.NewStore(backend, opts.Config.Storage.Key)
	store.SetLogger(opts.Logger)
	if w := opts.Config.Restore.WindowSeconds; w > 0 {
		store.SetRestoreWindow(time.Duration(w) * time.Second)
	}
	if err := store.Load(); err != nil {
		return nil, nil, err
	}

	handler := task.NewHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "todofast",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/tasks", handler.Routes())
		r.Get("/stats", handler.StatsHandler)
	})

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler))
	// The file server resolves "/" to the embedded index.html itself.
	r.Get("/", staticHandler.ServeHTTP)

	return r, store, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
