package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-directory/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/assignment"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetActiveForUser(ctx context.Context, userID int64) (*assignmentDatamodel.UserCompanyPosition, error) {
	var a assignmentDatamodel.UserCompanyPosition
	err := r.db.WithContext(ctx).
		Where("userid = ? AND deleted = ?", userID, false).
		Order("id DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *assignmentDatamodel.UserCompanyPosition) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) RevokeForUser(ctx context.Context, userID int64, modifiedBy *int64, now int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&assignmentDatamodel.UserCompanyPosition{}).
		Where("userid = ? AND deleted = ?", userID, false).
		Updates(revocation(modifiedBy, now))
	return result.RowsAffected, result.Error
}

func (r *AssignmentRepository) Revoke(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&assignmentDatamodel.UserCompanyPosition{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(revocation(modifiedBy, now))
	return result.RowsAffected, result.Error
}

func revocation(modifiedBy *int64, now int64) map[string]interface{} {
	return map[string]interface{}{
		"deleted":      true,
		"timemodified": now,
		"modifiedby":   modifiedBy,
	}
}
