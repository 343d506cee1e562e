package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vietddude/faultline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP endpoint exposing classification and metrics",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type classifyRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type classifyResponse struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Action      string `json:"action"`
	Code        string `json:"code"`
	UserMessage string `json:"user_message"`
}

func runServe(cmd *cobra.Command, args []string) {
	h, cfg := setup()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		e := h.HandleError(errors.New(req.Message), req.Context)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(classifyResponse{
			Category:    string(e.Category),
			Severity:    e.Severity.String(),
			Action:      string(e.RecoveryAction),
			Code:        e.Code,
			UserMessage: faultline.CreateUserMessage(e),
		})
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.ErrorStats())
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		slog.Info("Serving", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}
