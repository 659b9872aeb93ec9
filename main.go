/*
Package main
File: main.go
Description: Server entry point. Loads the universe, opens the journal and the
notification archive, starts the real-time WebSocket hub and serves one game
session over HTTP.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/everforgeworks/age-of-sail/internal/api"
	"github.com/everforgeworks/age-of-sail/internal/game"
	"github.com/everforgeworks/age-of-sail/internal/journal"
)

func main() {
	var (
		addr         = flag.String("addr", ":8081", "http listen address")
		universePath = flag.String("universe", "", "path to universe.yaml (default: built-in)")
		journalPath  = flag.String("journal", "journal.db", "sqlite journal path (empty to disable)")
		archiveDir   = flag.String("archive", "archive", "notification archive directory (empty to disable)")
		seed         = flag.Int64("seed", 0, "random seed (0 = time based)")
		stable       = flag.Bool("stable_prices", false, "open with deterministic prices")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *addr, *universePath, *journalPath, *archiveDir, *seed, *stable); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, universePath, journalPath, archiveDir string, seed int64, stable bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load the static universe
	u := game.DefaultUniverse()
	if universePath != "" {
		var err error
		if u, err = game.LoadUniverse(universePath); err != nil {
			return err
		}
	}
	logger.Info("universe loaded", "cities", len(u.Cities), "goods", len(u.Goods), "ships", len(u.Ships))

	// 2. Log sinks: websocket hub, sqlite journal, zstd archive
	hub := api.NewHub(logger.With("component", "hub"))
	go hub.Run(ctx)

	var db *journal.DB
	if journalPath != "" {
		var err error
		if db, err = journal.Open(journalPath, logger.With("component", "journal")); err != nil {
			return err
		}
		defer db.Close()
	}

	var archive *journal.Archive
	if archiveDir != "" {
		archive = journal.NewArchive(archiveDir, logger.With("component", "archive"))
		defer archive.Close()
	}

	// 3. The session
	g, err := game.New(u, game.Options{
		Rand:         game.NewRand(seed),
		Sink:         journal.Tee(hub, sinkOrNil(db), sinkOrNil(archive)),
		StablePrices: stable,
	})
	if err != nil {
		return err
	}
	snap := g.Snapshot()
	logger.Info("voyage begins", "city", snap.City, "gold", humanize.Comma(int64(snap.Gold)), "date", snap.Date.String())

	srv := api.NewServer(g, hub, logger.With("component", "api"))
	if db != nil {
		srv.SetHistory(db)
	}

	// 4. SIGHUP closes the current archive file; the next notification reopens it.
	go func() {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if archive != nil {
					if err := archive.Close(); err != nil {
						logger.Warn("archive close failed", "error", err)
					}
					logger.Info("archive reopened on next write")
				}
			}
		}
	}()

	// 5. Serve
	httpSrv := &http.Server{Addr: addr, Handler: srv.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("age of sail server live", "addr", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sinkOrNil keeps a typed nil pointer from becoming a non-nil game.Sink.
func sinkOrNil[T interface {
	comparable
	game.Sink
}](s T) game.Sink {
	var zero T
	if s == zero {
		return nil
	}
	return s
}
