package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/models"
	"github.com/courtlog/handball-tracker/pkg/config"
	"github.com/courtlog/handball-tracker/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db, cfg.DatabaseURL); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB, databaseURL string) error {
	if err := db.AutoMigrate(
		&models.MatchSession{},
		&models.TeamConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Index DDL below is Postgres-flavored; the sqlite store relies on
	// the AutoMigrate indexes alone.
	if strings.HasPrefix(databaseURL, "sqlite://") {
		return nil
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_match_sessions_start_time ON match_sessions(start_time DESC)",
		"CREATE INDEX IF NOT EXISTS idx_match_sessions_finished ON match_sessions(finished)",
		"CREATE INDEX IF NOT EXISTS idx_match_sessions_tournament ON match_sessions(tournament_name)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"team_configs",
		"match_sessions",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	// Default roster the entry screen offers when no team is set up.
	players := []handball.Player{
		{No: 2, Name: "まい"},
		{No: 7, Name: "みか"},
		{No: 9, Name: "かほ"},
		{No: 10, Name: "あすか"},
		{No: 13, Name: "しゅり"},
		{No: 14, Name: "りな"},
		{No: 15, Name: "あいか"},
		{No: 16, Name: "こう"},
		{No: 17, Name: "りお"},
		{No: 19, Name: "りん"},
		{No: 20, Name: "みさと"},
	}

	playersJSON, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	keepersJSON, err := json.Marshal([]int{16})
	if err != nil {
		return fmt.Errorf("failed to encode keepers: %w", err)
	}

	teamConfig := &models.TeamConfig{
		TeamName:  "同志社",
		Players:   playersJSON,
		GKNumbers: keepersJSON,
	}

	if err := db.Create(teamConfig).Error; err != nil {
		return fmt.Errorf("failed to create team config: %w", err)
	}

	return nil
}
