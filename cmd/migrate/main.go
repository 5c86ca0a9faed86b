package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/campusfind/campusfind/internal/db"
	"github.com/joho/godotenv"
)

// Maintenance entry point for schema migrations. The server applies
// pending migrations on boot; this command exists for rollbacks and for
// migrating without starting the server.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	driver := envString("DB_DRIVER", "sqlite")
	connection := envString("DB_CONNECTION", "./data/campusfind.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	database, err := db.Init(driver, connection)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close(database) }()

	switch direction {
	case "up":
		err = db.RunMigrations(database.DB, driver)
	case "down":
		err = db.MigrateDown(database.DB, driver)
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down]")
		os.Exit(2)
	}

	if err != nil {
		slog.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}
