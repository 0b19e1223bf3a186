package category

import (
	"log/slog"

	categoryDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.GrievanceCategory, error)
	GetByName(name string) (*categoryDatamodel.GrievanceCategory, error)
	Create(category *categoryDatamodel.GrievanceCategory) error
	Update(category *categoryDatamodel.GrievanceCategory) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]CategoryResponse, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	var responses []CategoryResponse
	for _, dataCategory := range dataCategories {
		domainCategory := FromDataModel(dataCategory)
		if domainCategory.IsActiveCategory() {
			responses = append(responses, domainCategory.ToResponse())
		}
	}

	return responses, nil
}

// IsValidCategory reports whether name matches an active category. The
// submission form only offers active ones, so anything else is a bad request.
func (s *Service) IsValidCategory(name string) bool {
	dataCategory, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Warn("error checking category validity", "name", name, "error", err)
		return false
	}
	if dataCategory == nil {
		return false
	}
	return FromDataModel(dataCategory).IsActiveCategory()
}

// Seed inserts any default category that is not present yet.
func (s *Service) Seed() error {
	for _, def := range DefaultCategories {
		existing, err := s.repo.GetByName(def.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		cat := NewCategory(def.Name, def.Description)
		if err := s.repo.Create(ToDataModel(cat)); err != nil {
			return err
		}
		s.logger.Info("seeded grievance category", "name", def.Name)
	}
	return nil
}
