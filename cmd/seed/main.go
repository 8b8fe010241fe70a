// Command main runs the database seeder for Atrium.
package main

import (
	"flag"
	"log"

	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/seed"
)

func main() {
	// Parse command line flags
	numAdmins := flag.Int("admins", 10, "Number of admin accounts to create")
	numCustomers := flag.Int("customers", 100, "Number of customer accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d admins, %d customers, clean=%v\n", *numAdmins, *numCustomers, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	// The catalog must exist before admins can be placed in groups.
	if err := seed.Catalog(db); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}
	if err := seed.Countries(db); err != nil {
		log.Fatalf("Country seeding failed: %v", err)
	}

	admins, err := s.SeedAdmins(*numAdmins)
	if err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
	customers, err := s.SeedCustomers(*numCustomers)
	if err != nil {
		log.Fatalf("Customer seeding failed: %v", err)
	}
	if _, err := s.SeedBlocks(admins, customers); err != nil {
		log.Fatalf("Block seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Printf("All seeded admins have the password: %s", seed.DefaultSeedPassword)
}
