package main

import (
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/bakervibes/vexa-backend/internal/config"
	"github.com/bakervibes/vexa-backend/migrations"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		slog.Error("open db", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("set dialect", "err", err)
		os.Exit(1)
	}

	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		slog.Error("unknown command", "cmd", cmd)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("migrate", "cmd", cmd, "err", err)
		os.Exit(1)
	}
}
