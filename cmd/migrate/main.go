package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/baharkarakas/lottery-miniapp-api/internal/config"
	"github.com/baharkarakas/lottery-miniapp-api/internal/db"
	"github.com/baharkarakas/lottery-miniapp-api/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [version] | status")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)
	if cfg.StoreBackend != config.BackendPostgres {
		log.Error("migrations need direct database access", "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	switch flag.Arg(0) {
	case "up":
		err = db.RunMigrations(ctx, pool)
	case "down":
		var version int64
		if v := flag.Arg(1); v != "" {
			version, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				log.Error("invalid version", "version", v)
				os.Exit(2)
			}
		}
		err = db.RollbackMigration(ctx, pool, version)
	case "status":
		err = db.MigrationStatus(ctx, pool)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("migrate", "cmd", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}
