package postgres

import (
	"context"
	"errors"

	assignmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/assignment"
	departmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/department"
	"github.com/frahmantamala/company-directory/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("name ASC").
		Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("name = ? AND deleted = ?", name, false).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields).Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&assignmentDatamodel.UserCompanyPosition{}).
			Where("departmentid = ? AND deleted = ?", id, false).
			Updates(map[string]interface{}{
				"departmentid": nil,
				"timemodified": now,
				"modifiedby":   modifiedBy,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&departmentDatamodel.Department{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"deleted":      true,
				"timemodified": now,
				"modifiedby":   modifiedBy,
			}).Error
	})
}
