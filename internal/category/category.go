package category

import (
	"time"

	categoryDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/category"
)

// DefaultCategories are the grievance categories offered on the submission
// form, seeded when absent.
var DefaultCategories = []struct {
	Name        string
	Description string
}{
	{"Roads", "Potholes, broken pavement and road damage"},
	{"Drainage", "Blocked or overflowing drains"},
	{"Street Lighting", "Broken or missing street lights"},
	{"Sanitation", "Garbage collection and public cleanliness"},
	{"Water Supply", "Water outages, leaks and quality issues"},
	{"Other", "Anything not covered by the other categories"},
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) IsActiveCategory() bool {
	return c.IsActive
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
	}
}

func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.GrievanceCategory {
	return &categoryDatamodel.GrievanceCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.GrievanceCategory) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
