package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beanport/backend/internal/infrastructure/config"
	"github.com/beanport/backend/internal/infrastructure/logger"
	"github.com/beanport/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
		confirmDrop    bool
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "path to the migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.BoolVar(&confirmDrop, "confirm", false, "required for the drop command")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	dir, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Resolving migrations path failed", zap.Error(err))
	}

	// create and list work without a database connection.
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(dir, args[1])
		if err != nil {
			log.Fatal("Creating migration failed", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return

	case "list":
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("Listing migrations failed", zap.Error(err))
		}
		if len(names) == 0 {
			log.Info("No migrations found", zap.String("path", dir))
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Loading configuration failed", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Opening database failed", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable", zap.Error(err))
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("Creating migrator failed", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migrate up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migrate down failed", zap.Error(err))
		}

	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migrate step failed", zap.Error(err))
		}

	case "goto":
		target, err := intArg(args, "target version")
		if err != nil || target < 0 {
			log.Fatal("Non-negative target version required. Usage: migrate goto <version>")
		}
		if err := m.GoTo(uint(target)); err != nil {
			log.Fatal("Migrate goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Reading version failed", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
			return
		}
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "force":
		target, err := intArg(args, "version")
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := m.Force(target); err != nil {
			log.Fatal("Force failed", zap.Error(err))
		}

	case "drop":
		if !confirmDrop {
			log.Fatal("Drop destroys all data. Rerun as: migrate -confirm drop")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`Beanport schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up               apply all pending migrations
  down             roll back all migrations
  step <n>         apply n migrations, negative n rolls back
  goto <version>   migrate to a specific version
  version          show the current schema version
  force <version>  stamp the version without migrating (dirty-state recovery)
  drop             drop all database objects, requires -confirm
  create <name>    create an empty up/down pair with the next sequence number
  list             list the migrations on disk

Flags:
  -path string       migrations directory (default "migrations")
  -log-level string  debug, info, warn or error (default "info")
  -confirm           confirm the drop command

The database connection comes from config.yaml or BEANPORT_DATABASE_*
environment variables, the same configuration the server reads.`)
}
