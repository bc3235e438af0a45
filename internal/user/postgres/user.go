package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, condition string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Where(condition, arg).
		Where("deleted = ?", false).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(fields).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted":      true,
			"timemodified": now,
			"modifiedby":   modifiedBy,
		})
	return result.RowsAffected, result.Error
}
