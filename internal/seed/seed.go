// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"atrium/internal/models"
	"atrium/internal/repository"
	"atrium/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSeedPassword is the password every generated admin account gets.
const DefaultSeedPassword = "password123"

var blockReasonTemplates = []string{
	"Repeated spam in public rooms",
	"Abusive language toward other users",
	"Payment chargeback fraud",
	"Ban evasion with a duplicate account",
	"Sharing links to malicious sites",
	"Impersonating a staff member",
	"Automated bot-like activity",
}

// Seeder populates the database with generated test data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll truncates every seeded table. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE admin_permissions, admin_groups, group_permissions,
		block_reasons, admins, customer_users, groups, permissions RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedAdmins creates n admin accounts with generated identities. All accounts
// share DefaultSeedPassword and land in the standard Moderators group.
func (s *Seeder) SeedAdmins(n int) ([]models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultSeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	var moderators models.Group
	if err := s.db.Where("taxonomy = ? AND name = ?", models.TaxonomyStandard, "Moderators").
		First(&moderators).Error; err != nil {
		return nil, fmt.Errorf("load Moderators group (run Catalog first): %w", err)
	}

	var countries []models.Country
	if err := s.db.Find(&countries).Error; err != nil {
		return nil, err
	}

	admins := make([]models.Admin, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(fmt.Sprintf("%s_%s%d",
			gofakeit.FirstName(), gofakeit.LastName(), s.rng.Intn(1000)))
		admin := models.Admin{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Phone:    gofakeit.Phone(),
			Password: string(hash),
			IsActive: true,
		}
		if len(countries) > 0 {
			admin.CountryID = &countries[s.rng.Intn(len(countries))].ID
		}
		if err := s.db.Create(&admin).Error; err != nil {
			return nil, fmt.Errorf("create admin %s: %w", username, err)
		}
		if err := s.db.Model(&admin).Association("Groups").Append(&moderators); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}

	log.Printf("%d admin accounts created", len(admins))
	return admins, nil
}

// SeedCustomers creates n customer accounts.
func (s *Seeder) SeedCustomers(n int) ([]models.CustomerUser, error) {
	customers := make([]models.CustomerUser, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(fmt.Sprintf("%s%d", gofakeit.Username(), s.rng.Intn(10000)))
		customer := models.CustomerUser{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		}
		if err := s.db.Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("create customer %s: %w", username, err)
		}
		customers = append(customers, customer)
	}

	log.Printf("%d customer accounts created", len(customers))
	return customers, nil
}

// SeedBlocks blocks roughly one in five of the given customers with an audit
// row attributed to a random admin. Uses the real service path so the same
// validation and transaction run as in production.
func (s *Seeder) SeedBlocks(admins []models.Admin, customers []models.CustomerUser) (int, error) {
	if len(admins) == 0 {
		return 0, fmt.Errorf("no admins to attribute blocks to")
	}

	blocks := service.NewBlockService(repository.NewCustomerRepository(s.db), nil)
	ctx := context.Background()

	blocked := 0
	for _, customer := range customers {
		if s.rng.Intn(5) != 0 {
			continue
		}
		creator := admins[s.rng.Intn(len(admins))]
		reason := blockReasonTemplates[s.rng.Intn(len(blockReasonTemplates))]
		if _, err := blocks.BlockCustomer(ctx, creator.ID, customer.ID, reason); err != nil {
			return blocked, fmt.Errorf("block customer %d: %w", customer.ID, err)
		}
		blocked++
	}

	log.Printf("%d customers blocked", blocked)
	return blocked, nil
}

// EnsureSuperuser creates a superuser account through the provisioning
// service if no admin with that username exists yet. Returns the existing or
// newly created row.
func EnsureSuperuser(ctx context.Context, db *gorm.DB, username, email, password string) (*models.Admin, error) {
	adminRepo := repository.NewAdminRepository(db)

	existing, err := adminRepo.GetByUsername(ctx, service.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	provision := service.NewProvisionService(adminRepo)
	return provision.CreateSuperuser(ctx, service.CreateAdminInput{
		Username: username,
		Email:    email,
		Password: password,
	})
}
