package postgres

import (
	"context"
	"errors"

	assignmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/assignment"
	"github.com/frahmantamala/company-directory/internal/companyposition"
	positionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/companyposition"
	"gorm.io/gorm"
)

type CompanyPositionRepository struct {
	db *gorm.DB
}

func NewCompanyPositionRepository(db *gorm.DB) companyposition.RepositoryAPI {
	return &CompanyPositionRepository{db: db}
}

func (r *CompanyPositionRepository) GetAll(ctx context.Context) ([]*positionDatamodel.CompanyPosition, error) {
	var positions []*positionDatamodel.CompanyPosition
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("name ASC").
		Find(&positions).Error
	return positions, err
}

func (r *CompanyPositionRepository) GetByID(ctx context.Context, id int64) (*positionDatamodel.CompanyPosition, error) {
	var p positionDatamodel.CompanyPosition
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *CompanyPositionRepository) GetByName(ctx context.Context, name string) (*positionDatamodel.CompanyPosition, error) {
	var p positionDatamodel.CompanyPosition
	err := r.db.WithContext(ctx).Where("name = ? AND deleted = ?", name, false).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *CompanyPositionRepository) Create(ctx context.Context, p *positionDatamodel.CompanyPosition) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CompanyPositionRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&positionDatamodel.CompanyPosition{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields).Error
}

func (r *CompanyPositionRepository) Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&assignmentDatamodel.UserCompanyPosition{}).
			Where("companypositionid = ? AND deleted = ?", id, false).
			Updates(map[string]interface{}{
				"companypositionid": nil,
				"timemodified":      now,
				"modifiedby":        modifiedBy,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&positionDatamodel.CompanyPosition{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"deleted":      true,
				"timemodified": now,
				"modifiedby":   modifiedBy,
			}).Error
	})
}
