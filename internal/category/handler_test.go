package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/civicworks/grievance-management/internal/category"
	categoryPostgres "github.com/civicworks/grievance-management/internal/category/postgres"
	categoryDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/category"
	"github.com/civicworks/grievance-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		service *category.Service
		handler *category.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.GrievanceCategory{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = category.NewHandler(baseHandler, service)

		testCategories := []*category.Category{
			category.NewCategory("Roads", "Potholes and road damage"),
			category.NewCategory("Drainage", "Blocked drains"),
		}

		for _, cat := range testCategories {
			err := repo.Create(category.ToDataModel(cat))
			Expect(err).NotTo(HaveOccurred())
		}

		inactiveCategory := &categoryDatamodel.GrievanceCategory{
			Name:        "Telegraph",
			Description: "No longer offered",
			IsActive:    true,
		}
		err = repo.Create(inactiveCategory)
		Expect(err).NotTo(HaveOccurred())

		inactiveCategory.IsActive = false
		err = repo.Update(inactiveCategory)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should handle GET /categories request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		Expect(err).NotTo(HaveOccurred())

		Expect(response.Categories).To(HaveLen(2))

		names := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			names[i] = cat.Name
		}
		Expect(names).To(ConsistOf("Roads", "Drainage"))
	})
})
