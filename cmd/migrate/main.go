package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/maubinnav/maubinnav/internal/adapters/postgres"
	"github.com/maubinnav/maubinnav/internal/pkg/config"
	"github.com/maubinnav/maubinnav/internal/pkg/logging"
)

const serviceName = "maubin-migrate"

const dropTables = `
	DROP TABLE IF EXISTS city_details;
	DROP TABLE IF EXISTS roads;
	DROP TABLE IF EXISTS locations;
	DROP TABLE IF EXISTS cities;
`

func main() {
	dir := flag.String("dir", "migrations", "directory holding the *.sql files")
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: migrate [-dir migrations] <up|down>")
	}

	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(serviceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	switch flag.Arg(0) {
	case "up":
		runMigrations(ctx, db, *dir)
	case "down":
		if _, err := db.Pool.Exec(ctx, dropTables); err != nil {
			log.Fatalf("drop tables: %v", err)
		}
		slog.Info("directory tables dropped")
	default:
		log.Fatalf("unknown command: %s", flag.Arg(0))
	}
}

// runMigrations applies every file in lexical order. The files are written
// to be re-runnable.
func runMigrations(ctx context.Context, db *postgres.DB, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no migrations found in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
		slog.Info("migration applied", "file", f)
	}

	slog.Info("all migrations applied", "count", len(files))
}
