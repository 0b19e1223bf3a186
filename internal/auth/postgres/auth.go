package postgres

import (
	"errors"
	"time"

	"github.com/civicworks/grievance-management/internal/auth"
	userDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository implements auth.RepositoryAPI over the users table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, auth.ErrUserNotFound
		}
		return "", 0, err
	}
	return u.PasswordHash, u.ID, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", userID, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (r *Repository) GetUserByEmail(email string) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (r *Repository) CreateUser(email, passwordHash, role string) (*auth.User, error) {
	now := time.Now()
	u := userDatamodel.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}
