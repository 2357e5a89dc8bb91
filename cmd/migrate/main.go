// Package main runs database migrations with goose.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"stockledger/internal/config"
)

const migrationsDir = "db/migrations"

func main() {
	_ = godotenv.Load()

	var (
		command = flag.String("cmd", "up", "goose command: up, down, status, version")
		dir     = flag.String("dir", migrationsDir, "directory with migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Printf("failed to set dialect: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch *command {
	case "up":
		err = goose.UpContext(ctx, db, *dir)
	case "down":
		err = goose.DownContext(ctx, db, *dir)
	case "status":
		err = goose.StatusContext(ctx, db, *dir)
	case "version":
		err = goose.VersionContext(ctx, db, *dir)
	default:
		fmt.Printf("unknown command: %s\n", *command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("migration %s failed: %v\n", *command, err)
		os.Exit(1)
	}
}
