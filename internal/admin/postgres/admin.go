package postgres

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/admin"
	adminDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/admin"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) admin.RepositoryAPI {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&adminDatamodel.Admin{}).
		Where("active = ? AND deleted = ?", 1, false)
}

func (r *AdminRepository) AnyActive(ctx context.Context) (bool, error) {
	count, err := r.CountActive(ctx)
	return count > 0, err
}

func (r *AdminRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.active(ctx).Distinct("userid").Count(&count).Error
	return count, err
}

func (r *AdminRepository) IsUserAdmin(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.active(ctx).Where("userid = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *AdminRepository) Create(ctx context.Context, a *adminDatamodel.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminRepository) RemoveForUser(ctx context.Context, userID int64, modifiedBy *int64, now int64) (int64, error) {
	result := r.active(ctx).
		Where("userid = ?", userID).
		Updates(map[string]interface{}{
			"active":       0,
			"deleted":      true,
			"timemodified": now,
			"modifiedby":   modifiedBy,
		})
	return result.RowsAffected, result.Error
}
