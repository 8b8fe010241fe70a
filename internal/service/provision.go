package service

import (
	"context"
	"strings"

	"atrium/internal/models"
	"atrium/internal/repository"
	"atrium/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProvisionService creates and manages admin accounts. Passwords are hashed
// before they reach the repository; a plain password never hits a row.
type ProvisionService struct {
	adminRepo repository.AdminRepository
}

// CreateAdminInput carries the provisioning fields. Superuser is a pointer so
// CreateSuperuser can tell "left unset" apart from "explicitly false".
type CreateAdminInput struct {
	Username  string
	Email     string
	Phone     string
	Password  string
	Superuser *bool
	Active    *bool
	CountryID *uint
	Avatar    string
}

// NewProvisionService returns a new ProvisionService.
func NewProvisionService(adminRepo repository.AdminRepository) *ProvisionService {
	return &ProvisionService{adminRepo: adminRepo}
}

// NormalizeUsername applies the platform username rules: surrounding
// whitespace dropped, lowercased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail lowercases the domain part, leaving the local part intact.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// CreateAdmin provisions a regular admin account. The superuser flag defaults
// to false unless explicitly set.
func (s *ProvisionService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	if in.Superuser == nil {
		superuser := false
		in.Superuser = &superuser
	}
	return s.createAdmin(ctx, in)
}

// CreateSuperuser provisions a superuser account. The superuser flag defaults
// to true; passing it explicitly false is an invariant violation, not a
// silent downgrade.
func (s *ProvisionService) CreateSuperuser(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	if in.Superuser == nil {
		superuser := true
		in.Superuser = &superuser
	}
	if !*in.Superuser {
		return nil, models.NewInvariantViolationError("Superuser must have is_superuser=true")
	}
	return s.createAdmin(ctx, in)
}

func (s *ProvisionService) createAdmin(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	username := NormalizeUsername(in.Username)
	if username == "" {
		return nil, models.NewInvalidArgumentError("The given username must be set")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	email := NormalizeEmail(in.Email)
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	admin := &models.Admin{
		Username:    username,
		Email:       email,
		Phone:       in.Phone,
		Password:    string(hashed),
		Avatar:      in.Avatar,
		IsSuperuser: *in.Superuser,
		IsActive:    active,
		CountryID:   in.CountryID,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Authenticate checks the username/password pair and returns the admin on
// success. Inactive accounts fail the same way as bad credentials so the
// response doesn't leak account state.
func (s *ProvisionService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return admin, nil
}

// SetActive flips the is_active flag on an admin account.
func (s *ProvisionService) SetActive(ctx context.Context, adminID uint, active bool) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	admin.IsActive = active
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
