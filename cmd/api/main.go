package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business_planner/pkg/api/planning"
	"business_planner/pkg/core/config"
	"business_planner/pkg/core/logging"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/telemetry"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		fmt.Printf("[WARNING] %v\n", err)
	}

	cfgPath := config.DefaultPath
	if p := os.Getenv("ENGINE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		fmt.Printf("[WARNING] Tracing disabled: %v\n", err)
		shutdownTracing = func(context.Context) error { return nil }
	} else if cfg.Telemetry.OTLPEndpoint != "" {
		fmt.Printf("[TRACING] Exporting spans to %s\n", cfg.Telemetry.OTLPEndpoint)
	}

	// Result store
	runs, backend, err := store.Open(ctx, cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		fmt.Printf("[WARNING] Result store unavailable (%v), caching in memory\n", err)
		runs, backend = store.NewMemoryStore(), "memory"
	}
	memo := store.NewMemo(runs, logger)
	defer memo.Close()
	fmt.Printf("[STORE] Caching results in %s\n", backend)

	engine := projection.NewEngine(cfg.Projection, projection.WithLogger(logger))
	handler := planning.NewHandler(engine, cfg.IRR, memo, logger)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	for _, route := range planning.Routes() {
		fmt.Printf("  - %s\n", route)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("[WARNING] Shutdown: %v\n", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			fmt.Printf("[WARNING] Tracing shutdown: %v\n", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[SHUTDOWN] Server stopped")
}
