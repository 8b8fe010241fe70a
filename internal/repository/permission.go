package repository

import (
	"context"
	"errors"
	"time"

	"atrium/internal/models"
	"atrium/internal/observability"

	"gorm.io/gorm"
)

// PermissionQueries is the read-side interface the permission resolution
// predicate runs against. An empty codename matches every permission in the
// taxonomy. Implementations must not write.
type PermissionQueries interface {
	// DirectPermissions returns permissions granted straight to the admin.
	DirectPermissions(ctx context.Context, adminID uint, taxonomy models.Taxonomy, codename string) ([]models.Permission, error)
	// GroupPermissions returns permissions granted to any group the admin belongs to.
	GroupPermissions(ctx context.Context, adminID uint, taxonomy models.Taxonomy, codename string) ([]models.Permission, error)
}

// PermissionRepository manages the permission catalog and groups on top of
// the read queries the resolver needs.
type PermissionRepository interface {
	PermissionQueries

	GetByCodename(ctx context.Context, taxonomy models.Taxonomy, codename string) (*models.Permission, error)
	CreatePermission(ctx context.Context, perm *models.Permission) error
	ListPermissions(ctx context.Context, taxonomy models.Taxonomy) ([]models.Permission, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	AddPermissionToGroup(ctx context.Context, groupID, permissionID uint) error
	RemovePermissionFromGroup(ctx context.Context, groupID, permissionID uint) error
	ListGroups(ctx context.Context, taxonomy models.Taxonomy) ([]models.Group, error)
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository returns a new PermissionRepository implementation.
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) DirectPermissions(ctx context.Context, adminID uint, taxonomy models.Taxonomy, codename string) ([]models.Permission, error) {
	defer observability.ObserveQuery("direct_permissions", "permissions", time.Now())

	var perms []models.Permission
	q := r.db.WithContext(ctx).
		Joins("JOIN admin_permissions ON admin_permissions.permission_id = permissions.id").
		Where("admin_permissions.admin_id = ? AND permissions.taxonomy = ?", adminID, taxonomy)
	if codename != "" {
		q = q.Where("permissions.codename = ?", codename)
	}
	if err := q.Find(&perms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return perms, nil
}

func (r *permissionRepository) GroupPermissions(ctx context.Context, adminID uint, taxonomy models.Taxonomy, codename string) ([]models.Permission, error) {
	defer observability.ObserveQuery("group_permissions", "permissions", time.Now())

	var perms []models.Permission
	q := r.db.WithContext(ctx).
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Joins("JOIN admin_groups ON admin_groups.group_id = group_permissions.group_id").
		Where("admin_groups.admin_id = ? AND permissions.taxonomy = ?", adminID, taxonomy)
	if codename != "" {
		q = q.Where("permissions.codename = ?", codename)
	}
	if err := q.Distinct("permissions.*").Find(&perms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return perms, nil
}

func (r *permissionRepository) GetByCodename(ctx context.Context, taxonomy models.Taxonomy, codename string) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.WithContext(ctx).
		Where("taxonomy = ? AND codename = ?", taxonomy, codename).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Permission", codename)
		}
		return nil, models.NewInternalError(err)
	}
	return &perm, nil
}

func (r *permissionRepository) CreatePermission(ctx context.Context, perm *models.Permission) error {
	if err := r.db.WithContext(ctx).Create(perm).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Permission codename already exists in this taxonomy")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *permissionRepository) ListPermissions(ctx context.Context, taxonomy models.Taxonomy) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.WithContext(ctx).Where("taxonomy = ?", taxonomy).Order("codename").Find(&perms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return perms, nil
}

func (r *permissionRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Group name already exists in this taxonomy")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *permissionRepository) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

// AddPermissionToGroup attaches a permission to a group. Group and permission
// must share a taxonomy; mixing is rejected before the association is written.
func (r *permissionRepository) AddPermissionToGroup(ctx context.Context, groupID, permissionID uint) error {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Group", groupID)
		}
		return models.NewInternalError(err)
	}

	var perm models.Permission
	if err := r.db.WithContext(ctx).First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Permission", permissionID)
		}
		return models.NewInternalError(err)
	}

	if group.Taxonomy != perm.Taxonomy {
		return models.NewValidationError("Group and permission belong to different taxonomies")
	}

	if err := r.db.WithContext(ctx).Model(&group).Association("Permissions").Append(&perm); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *permissionRepository) RemovePermissionFromGroup(ctx context.Context, groupID, permissionID uint) error {
	group := models.Group{ID: groupID}
	perm := models.Permission{ID: permissionID}
	if err := r.db.WithContext(ctx).Model(&group).Association("Permissions").Delete(&perm); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *permissionRepository) ListGroups(ctx context.Context, taxonomy models.Taxonomy) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Where("taxonomy = ?", taxonomy).Order("name").Preload("Permissions").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}
