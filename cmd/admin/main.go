// Package main provides admin management utilities for Atrium.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/models"
	"atrium/internal/repository"
	"atrium/internal/seed"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create-superuser <username> <email> <password>  - Create a superuser account")
		fmt.Println("  go run ./cmd/admin grant <admin_id> <taxonomy> <codename>          - Grant a permission directly")
		fmt.Println("  go run ./cmd/admin revoke <admin_id> <taxonomy> <codename>         - Revoke a direct permission")
		fmt.Println("  go run ./cmd/admin list-admins                                     - List all admin accounts")
		fmt.Println("  go run ./cmd/admin list-permissions <admin_id> <taxonomy>          - List an admin's resolved permissions")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "create-superuser":
		if len(os.Args) < 5 {
			fmt.Println("Usage: go run ./cmd/admin create-superuser <username> <email> <password>")
			os.Exit(1)
		}
		createSuperuser(ctx, db, os.Args[2], os.Args[3], os.Args[4])

	case "grant":
		if len(os.Args) < 5 {
			fmt.Println("Usage: go run ./cmd/admin grant <admin_id> <taxonomy> <codename>")
			os.Exit(1)
		}
		grantPermission(ctx, db, os.Args[2], os.Args[3], os.Args[4], true)

	case "revoke":
		if len(os.Args) < 5 {
			fmt.Println("Usage: go run ./cmd/admin revoke <admin_id> <taxonomy> <codename>")
			os.Exit(1)
		}
		grantPermission(ctx, db, os.Args[2], os.Args[3], os.Args[4], false)

	case "list-admins":
		listAdmins(db)

	case "list-permissions":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin list-permissions <admin_id> <taxonomy>")
			os.Exit(1)
		}
		listPermissions(ctx, db, os.Args[2], os.Args[3])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createSuperuser(ctx context.Context, db *gorm.DB, username, email, password string) {
	admin, err := seed.EnsureSuperuser(ctx, db, username, email, password)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}
	fmt.Printf("Superuser %s ready (ID: %d)\n", admin.Username, admin.ID)
}

func parseAdminID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		log.Fatalf("Invalid admin ID %q", raw)
	}
	return uint(id)
}

func parseTaxonomy(raw string) models.Taxonomy {
	taxonomy := models.Taxonomy(raw)
	if !taxonomy.Valid() {
		log.Fatalf("Unknown taxonomy %q (want standard or developer)", raw)
	}
	return taxonomy
}

func grantPermission(ctx context.Context, db *gorm.DB, rawID, rawTaxonomy, codename string, grant bool) {
	adminID := parseAdminID(rawID)
	taxonomy := parseTaxonomy(rawTaxonomy)

	permRepo := repository.NewPermissionRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	perm, err := permRepo.GetByCodename(ctx, taxonomy, codename)
	if err != nil {
		log.Fatalf("Permission %s/%s not found: %v", taxonomy, codename, err)
	}

	if grant {
		if err := adminRepo.GrantPermission(ctx, adminID, perm.ID); err != nil {
			log.Fatalf("Grant failed: %v", err)
		}
		fmt.Printf("Granted %s/%s to admin %d\n", taxonomy, codename, adminID)
		return
	}
	if err := adminRepo.RevokePermission(ctx, adminID, perm.ID); err != nil {
		log.Fatalf("Revoke failed: %v", err)
	}
	fmt.Printf("Revoked %s/%s from admin %d\n", taxonomy, codename, adminID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.Admin
	if err := db.Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts found")
		return
	}

	fmt.Println("\nAdmin accounts:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		flags := ""
		if admin.IsSuperuser {
			flags += " [superuser]"
		}
		if !admin.IsActive {
			flags += " [inactive]"
		}
		fmt.Printf("ID: %d | Username: %s | Email: %s%s\n", admin.ID, admin.Username, admin.Email, flags)
	}
	fmt.Println("─────────────────────────────────────")
}

func listPermissions(ctx context.Context, db *gorm.DB, rawID, rawTaxonomy string) {
	adminID := parseAdminID(rawID)
	taxonomy := parseTaxonomy(rawTaxonomy)

	permRepo := repository.NewPermissionRepository(db)

	direct, err := permRepo.DirectPermissions(ctx, adminID, taxonomy, "")
	if err != nil {
		log.Fatalf("Failed to fetch direct permissions: %v", err)
	}
	group, err := permRepo.GroupPermissions(ctx, adminID, taxonomy, "")
	if err != nil {
		log.Fatalf("Failed to fetch group permissions: %v", err)
	}

	fmt.Printf("\nPermissions for admin %d in taxonomy %s:\n", adminID, taxonomy)
	for _, p := range direct {
		fmt.Printf("  direct: %s\n", p.Codename)
	}
	for _, p := range group {
		fmt.Printf("  group:  %s\n", p.Codename)
	}
	if len(direct)+len(group) == 0 {
		fmt.Println("  (none)")
	}
}
