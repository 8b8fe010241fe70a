// Command migrate applies the schema and built-in catalog rows.
package main

import (
	"flag"
	"fmt"
	"log"

	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	withCatalog := flag.Bool("catalog", true, "Upsert built-in permissions, groups, and countries after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Connect only automigrates outside production; migrate always does.
	if err := db.AutoMigrate(database.Models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	log.Println("automigrations applied")

	if *withCatalog {
		if err := seed.Catalog(db); err != nil {
			return fmt.Errorf("catalog upsert failed: %w", err)
		}
		if err := seed.Countries(db); err != nil {
			return fmt.Errorf("country upsert failed: %w", err)
		}
		log.Println("built-in catalog upserted")
	}

	return nil
}
