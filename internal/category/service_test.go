package category_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/civicworks/grievance-management/internal/category"
	categoryDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories map[string]*categoryDatamodel.GrievanceCategory
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[string]*categoryDatamodel.GrievanceCategory),
		shouldFail: false,
	}
}

func (m *MockRepository) GetAll() ([]*categoryDatamodel.GrievanceCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}

	var result []*categoryDatamodel.GrievanceCategory
	for _, cat := range m.categories {
		result = append(result, cat)
	}
	return result, nil
}

func (m *MockRepository) GetByName(name string) (*categoryDatamodel.GrievanceCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}

	cat, exists := m.categories[name]
	if !exists {
		return nil, nil
	}
	return cat, nil
}

func (m *MockRepository) Create(cat *categoryDatamodel.GrievanceCategory) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.Name] = cat
	return nil
}

func (m *MockRepository) Update(cat *categoryDatamodel.GrievanceCategory) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.Name] = cat
	return nil
}

// Helper methods for testing
func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddCategory(cat *category.Category) {
	dataCategory := category.ToDataModel(cat)
	m.categories[dataCategory.Name] = dataCategory
}

var _ = Describe("Category Service", func() {
	var (
		mockRepo *MockRepository
		service  *category.Service
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(mockRepo, logger)
	})

	Describe("GetAllCategories", func() {
		Context("when categories exist", func() {
			It("should return only the active ones", func() {
				mockRepo.AddCategory(category.NewCategory("Roads", "Potholes and road damage"))
				mockRepo.AddCategory(category.NewCategory("Drainage", "Blocked drains"))

				retired := category.NewCategory("Telegraph", "No longer offered")
				retired.IsActive = false
				mockRepo.AddCategory(retired)

				result, err := service.GetAllCategories()

				Expect(err).NotTo(HaveOccurred())
				Expect(result).To(HaveLen(2))

				names := make([]string, len(result))
				for i, cat := range result {
					names[i] = cat.Name
				}
				Expect(names).To(ConsistOf("Roads", "Drainage"))
			})
		})

		Context("when the repository fails", func() {
			It("should propagate the error", func() {
				mockRepo.SetShouldFail(true, errors.New("db down"))

				_, err := service.GetAllCategories()

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("IsValidCategory", func() {
		BeforeEach(func() {
			mockRepo.AddCategory(category.NewCategory("Roads", "Potholes and road damage"))

			retired := category.NewCategory("Telegraph", "No longer offered")
			retired.IsActive = false
			mockRepo.AddCategory(retired)
		})

		It("should accept an active category", func() {
			Expect(service.IsValidCategory("Roads")).To(BeTrue())
		})

		It("should reject an inactive category", func() {
			Expect(service.IsValidCategory("Telegraph")).To(BeFalse())
		})

		It("should reject an unknown category", func() {
			Expect(service.IsValidCategory("Potholes")).To(BeFalse())
		})

		It("should reject everything when the repository fails", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))

			Expect(service.IsValidCategory("Roads")).To(BeFalse())
		})
	})

	Describe("Seed", func() {
		It("should insert every default category", func() {
			err := service.Seed()

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.categories).To(HaveLen(len(category.DefaultCategories)))
			Expect(service.IsValidCategory("Street Lighting")).To(BeTrue())
			Expect(service.IsValidCategory("Other")).To(BeTrue())
		})

		It("should be idempotent", func() {
			Expect(service.Seed()).To(Succeed())
			Expect(service.Seed()).To(Succeed())

			Expect(mockRepo.categories).To(HaveLen(len(category.DefaultCategories)))
		})

		It("should not overwrite an operator-retired category", func() {
			retired := category.NewCategory("Other", "Anything else")
			retired.IsActive = false
			mockRepo.AddCategory(retired)

			Expect(service.Seed()).To(Succeed())

			Expect(service.IsValidCategory("Other")).To(BeFalse())
		})
	})
})
