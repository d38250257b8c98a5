// cloudseg-server exposes the cloud segmentation analysis over HTTP and
// keeps a SQLite registry of uploaded trajectories. Derived sequences are
// recomputed on every request; only raw input samples are stored.
//
// Besides serving, the binary carries the schema management subcommand:
//
//	cloudseg-server migrate up|down|status|version <n>|force <n>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eurec4a/cloudseg/internal/api"
	"github.com/eurec4a/cloudseg/internal/config"
	"github.com/eurec4a/cloudseg/internal/db"
	"github.com/eurec4a/cloudseg/internal/timeutil"
	"github.com/eurec4a/cloudseg/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbPath      = flag.String("db", "trajectories.db", "Path to the SQLite trajectory store")
	configPath  = flag.String("config", "", "Analysis config JSON file (optional)")
	autoMigrate = flag.Bool("auto-migrate", false, "Apply outstanding schema migrations on startup")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("cloudseg-server", version.String())
		return
	}

	// subcommands run before any server setup
	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "migrate":
			db.RunMigrateCommand(args[1:], *dbPath)
			return
		default:
			log.Fatalf("unknown command %q (did you mean 'migrate'?)", args[0])
		}
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.EmptyAnalysisConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAnalysisConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *autoMigrate {
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}
	if err := database.CheckSchema(); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, cfg, timeutil.RealClock{}).ServeMux()

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("cloudseg-server %s listening on %s (store: %s)", version.Version, *listen, *dbPath)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
