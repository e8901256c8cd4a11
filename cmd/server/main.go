package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/leca/dt-restcountries/internal/config"
	"github.com/leca/dt-restcountries/internal/database"
	"github.com/leca/dt-restcountries/internal/router"
	"github.com/leca/dt-restcountries/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.SeedSnapshot != "" {
		store := storage.NewFileSystem(cfg.StoragePath)
		path, err := seedPath(store, cfg.SeedSnapshot)
		if err != nil {
			slog.Error("failed to resolve seed snapshot", "seed", cfg.SeedSnapshot, "error", err)
			os.Exit(1)
		}
		payload, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read seed snapshot", "path", path, "error", err)
			os.Exit(1)
		}
		n, err := database.Seed(db, payload)
		if err != nil {
			slog.Error("failed to seed dataset", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("seeded dataset", "path", path, "count", n)
	}

	srv := router.New(db, cfg)

	slog.Info("starting server", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// seedPath resolves DT_SEED_SNAPSHOT: "latest" picks the newest stored
// snapshot, an existing file is used as is, anything else is a run ID.
func seedPath(store *storage.FileSystem, seed string) (string, error) {
	if seed == "latest" {
		runID, err := store.Latest()
		if err != nil {
			return "", err
		}
		return store.Path(runID), nil
	}
	if info, err := os.Stat(seed); err == nil && !info.IsDir() {
		return seed, nil
	}
	ok, err := store.Exists(seed)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, seed)
	}
	return store.Path(seed), nil
}
