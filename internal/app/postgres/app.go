package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-directory/internal/app"
	appDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/app"
	"gorm.io/gorm"
)

type AppRepository struct {
	db *gorm.DB
}

func NewAppRepository(db *gorm.DB) app.RepositoryAPI {
	return &AppRepository{db: db}
}

func (r *AppRepository) GetAll(ctx context.Context) ([]*appDatamodel.App, error) {
	var apps []*appDatamodel.App
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("name ASC").
		Find(&apps).Error
	return apps, err
}

func (r *AppRepository) GetByID(ctx context.Context, id int64) (*appDatamodel.App, error) {
	var a appDatamodel.App
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppRepository) GetByName(ctx context.Context, name string) (*appDatamodel.App, error) {
	var a appDatamodel.App
	err := r.db.WithContext(ctx).Where("name = ? AND deleted = ?", name, false).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppRepository) Create(ctx context.Context, a *appDatamodel.App) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&appDatamodel.App{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields).Error
}

func (r *AppRepository) Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&appDatamodel.App{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted":      true,
			"active":       0,
			"timemodified": now,
			"modifiedby":   modifiedBy,
		})
	return result.RowsAffected, result.Error
}
