package postgres

import (
	"errors"

	userDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/user"
	"github.com/civicworks/grievance-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}
