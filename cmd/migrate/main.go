package main

import (
	"log"
	"os"

	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/logger"
)

const migrationsDir = "database/migrations"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewMigrateOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		if err := database.MigrateUp(db, migrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	case "down":
		all := len(os.Args) > 2 && os.Args[2] == "--all"
		if err := database.MigrateDown(db, migrationsDir, all); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
	default:
		log.Fatalf("Unknown direction %q (expected up or down)", direction)
	}
}
