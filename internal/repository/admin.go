// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"atrium/internal/cache"
	"atrium/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines persistence operations for admin accounts,
// including group membership and direct permission grant management.
type AdminRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Admin, error)

	GrantPermission(ctx context.Context, adminID, permissionID uint) error
	RevokePermission(ctx context.Context, adminID, permissionID uint) error
	AddToGroup(ctx context.Context, adminID, groupID uint) error
	RemoveFromGroup(ctx context.Context, adminID, groupID uint) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a new AdminRepository implementation.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	key := cache.AdminKey(id)

	err := cache.Aside(ctx, key, &admin, cache.AdminTTL, func() error {
		if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Admin", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Admin already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *adminRepository) Update(ctx context.Context, admin *models.Admin) error {
	if err := r.db.WithContext(ctx).Save(admin).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, admin.ID)
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Admin{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, id)
	return nil
}

func (r *adminRepository) List(ctx context.Context, limit, offset int) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&admins).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return admins, nil
}

func (r *adminRepository) GrantPermission(ctx context.Context, adminID, permissionID uint) error {
	admin := models.Admin{ID: adminID}
	perm := models.Permission{ID: permissionID}
	if err := r.db.WithContext(ctx).Model(&admin).Association("Permissions").Append(&perm); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, adminID)
	return nil
}

func (r *adminRepository) RevokePermission(ctx context.Context, adminID, permissionID uint) error {
	admin := models.Admin{ID: adminID}
	perm := models.Permission{ID: permissionID}
	if err := r.db.WithContext(ctx).Model(&admin).Association("Permissions").Delete(&perm); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, adminID)
	return nil
}

func (r *adminRepository) AddToGroup(ctx context.Context, adminID, groupID uint) error {
	admin := models.Admin{ID: adminID}
	group := models.Group{ID: groupID}
	if err := r.db.WithContext(ctx).Model(&admin).Association("Groups").Append(&group); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, adminID)
	return nil
}

func (r *adminRepository) RemoveFromGroup(ctx context.Context, adminID, groupID uint) error {
	admin := models.Admin{ID: adminID}
	group := models.Group{ID: groupID}
	if err := r.db.WithContext(ctx).Model(&admin).Association("Groups").Delete(&group); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdmin(ctx, adminID)
	return nil
}
