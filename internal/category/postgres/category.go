package postgres

import (
	"errors"

	"github.com/civicworks/grievance-management/internal/category"
	categoryDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*categoryDatamodel.GrievanceCategory, error) {
	var categories []*categoryDatamodel.GrievanceCategory
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(name string) (*categoryDatamodel.GrievanceCategory, error) {
	var cat categoryDatamodel.GrievanceCategory
	err := r.db.Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.GrievanceCategory) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *categoryDatamodel.GrievanceCategory) error {
	return r.db.Save(cat).Error
}
