// Command amtd is the long-running collector daemon. It schedules the news
// and fact-check pipelines with cron expressions from the configuration and
// exposes a small HTTP status surface.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/pipeline"
	"github.com/askmetwice/amt/internal/storage"
)

// runStatus tracks the outcome of the most recent run of one pipeline.
type runStatus struct {
	Runs      int        `json:"runs"`
	Failures  int        `json:"failures"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Responses int        `json:"responses"`
	Errors    int        `json:"errors"`
}

// daemon owns the scheduler and the status counters.
type daemon struct {
	cfg *config.Config

	mu       sync.Mutex
	started  time.Time
	statuses map[string]*runStatus
}

func newDaemon(cfg *config.Config) *daemon {
	return &daemon{
		cfg:     cfg,
		started: time.Now(),
		statuses: map[string]*runStatus{
			"news":      {},
			"factcheck": {},
		},
	}
}

// run executes one pipeline and records its outcome.
func (d *daemon) run(ctx context.Context, name string, fn func(context.Context, *config.Config) (*storage.Manifest, error)) {
	log := logger.L()
	log.Info("scheduled %s run starting", name)

	manifest, err := fn(ctx, d.cfg)

	d.mu.Lock()
	defer d.mu.Unlock()
	status := d.statuses[name]
	status.Runs++
	now := time.Now()
	status.LastRun = &now
	if err != nil {
		status.Failures++
		status.LastError = err.Error()
		log.Error("scheduled %s run failed: %v", name, err)
		return
	}
	status.LastError = ""
	snapshot := manifest.Snapshot()
	status.Responses = snapshot.Responses
	status.Errors = snapshot.Errors
	log.Info("scheduled %s run finished (%d responses, %d errors)",
		name, snapshot.Responses, snapshot.Errors)
}

func (d *daemon) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (d *daemon) handleStatus(w http.ResponseWriter, _ *http.Request) {
	d.mu.Lock()
	body := struct {
		Uptime    string                `json:"uptime"`
		Pipelines map[string]*runStatus `json:"pipelines"`
	}{
		Uptime:    time.Since(d.started).Round(time.Second).String(),
		Pipelines: d.statuses,
	}
	payload, err := json.MarshalIndent(body, "", "  ")
	d.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.L().Close()
	log := logger.L()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := newDaemon(cfg)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Daemon.NewsCron, func() {
		d.run(ctx, "news", pipeline.RunNews)
	}); err != nil {
		log.Error("invalid news cron %q: %v", cfg.Daemon.NewsCron, err)
		os.Exit(1)
	}
	if cfg.Claims.Host != "" {
		if _, err := scheduler.AddFunc(cfg.Daemon.FactCheckCron, func() {
			d.run(ctx, "factcheck", pipeline.RunFactCheck)
		}); err != nil {
			log.Error("invalid fact-check cron %q: %v", cfg.Daemon.FactCheckCron, err)
			os.Exit(1)
		}
	} else {
		log.Warning("claims.host not set, fact-check schedule disabled")
	}
	scheduler.Start()
	log.Info("scheduler started (news %q, factcheck %q)", cfg.Daemon.NewsCron, cfg.Daemon.FactCheckCron)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", d.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/status", d.handleStatus).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Daemon.StatusPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("status server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("status server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warning("scheduler jobs still running after 30s, exiting anyway")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown: %v", err)
	}
}
