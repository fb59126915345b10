package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/history"
	"github.com/gobarajas/outreach-cli/internal/progress"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a read-only HTTP server exposing checkpoint and batch status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		if hist != nil {
			defer hist.Close()
		}

		mux := newServeMux(progress.NewStore(cfg.Progress.File), hist)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newServeMux(store *progress.Store, hist history.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, r *http.Request) {
		cp := store.Load()
		if cp.Index == 0 && cp.Date == "" {
			http.Error(w, `{"error":"no checkpoint saved"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(cp)
	})

	mux.HandleFunc("GET /batches/last", func(w http.ResponseWriter, r *http.Request) {
		if hist == nil {
			http.Error(w, `{"error":"history disabled"}`, http.StatusNotFound)
			return
		}
		batch, outcomes, err := hist.LastBatch(r.Context())
		if err != nil {
			zap.L().Error("last batch lookup failed", zap.Error(err))
			http.Error(w, `{"error":"history lookup failed"}`, http.StatusInternalServerError)
			return
		}
		if batch == nil {
			http.Error(w, `{"error":"no batches recorded"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"batch":    batch,
			"outcomes": outcomes,
		})
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
