// main is the entry point of the Demos API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Create the in-memory demo store
//  4. Register all HTTP routes and wrap them in middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/demos-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/demos-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demos-api/internal/config"
	"demos-api/internal/http/handlers/demo"
	"demos-api/internal/http/middleware"
	"demos-api/internal/storage/memory"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad either hands back a fully valid config or kills the
	// process with a clear message — no half-configured server.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog (stdlib, Go 1.21+) logs key=value pairs instead of free-form
	// strings, so the output greps and filters cleanly.
	//
	// SetDefault routes every slog.Info / slog.Error call in the program
	// (handlers, middleware) through this env-specific handler.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting demos-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// memory.New creates the map-backed demo store. The rest of the code
	// sees it only as the storage.Storage interface, so a future
	// database-backed store is a one-line change here and nowhere else.
	//
	// The store lives and dies with the process: restart the server and
	// the demos are gone, ids start again at 1.
	storage := memory.New()

	log.Info("storage initialised", slog.String("kind", "memory"))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// Go 1.22 ServeMux patterns carry the method and path parameters, so
	// no routing framework is needed.
	//
	// The demo.* functions are FACTORIES: each takes the store and
	// returns the actual http.HandlerFunc (the closure pattern — see the
	// handlers package doc).
	//
	// Route table:
	//   POST   /api/demos        → create a new demo
	//   GET    /api/demos        → list all demos
	//   GET    /api/demos/{id}   → get one demo by ID
	//   PATCH  /api/demos/{id}   → patch a demo; the Content-Type header
	//                              picks one of the three patch protocols
	router := http.NewServeMux()

	router.HandleFunc("POST /api/demos", demo.New(storage))
	router.HandleFunc("GET /api/demos", demo.GetList(storage))
	router.HandleFunc("GET /api/demos/{id}", demo.GetByID(storage))
	router.HandleFunc("PATCH /api/demos/{id}", demo.Patch(storage))

	// Wrap the router in the cross-cutting middleware. Order matters:
	// the first middleware listed is the outermost — RequestID tags the
	// request before Logger logs it, and Recovery sits closest to the
	// handlers so a panic is caught (and turned into a 500) while the
	// logger still records the request line for it.
	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
	)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	// Configured here, started below. The timeouts keep one slow or
	// malicious client from pinning a connection open forever.
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: handler,             // every request enters through the middleware chain

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks for the life of the server, so it gets its
	// own goroutine; main stays free to wait for the shutdown signal
	// below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// On Shutdown, ListenAndServe returns http.ErrServerClosed.
		// That is the clean-exit path, not a failure.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// A buffered channel of one signal: buffered so the notification
	// isn't dropped if it lands while main is between statements.
	done := make(chan os.Signal, 1)

	// os.Interrupt is Ctrl+C; SIGTERM is what `kill` and container
	// runtimes send. Receiving either unblocks main.
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests up to five seconds to finish; the context
	// deadline puts a ceiling on how long a stop can drag.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown stops accepting new connections, then waits for active
	// requests until the context expires.
	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev gets human-readable text at DEBUG; staging gets JSON at DEBUG;
// prod gets JSON at INFO. JSON output feeds straight into log
// aggregators (Loki, CloudWatch, …) without extra parsing.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
