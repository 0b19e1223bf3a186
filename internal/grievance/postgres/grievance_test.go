package postgres

import (
	"testing"
	"time"

	grievanceDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/grievance"
	"github.com/civicworks/grievance-management/internal/grievance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGrievanceRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "GrievanceRepository Suite")
}

func sample(trackingID, submittedBy string, submittedAt time.Time) *grievance.Grievance {
	return &grievance.Grievance{
		TrackingID:         trackingID,
		Category:           "Roads",
		Description:        "Large pothole near the market entrance",
		SubmittedBy:        submittedBy,
		Status:             grievance.StatusPending,
		Summary:            "Pothole reported",
		AssignedDepartment: "Public Works Department",
		NextSteps:          "Dispatch inspection team",
		SubmittedAt:        submittedAt,
		UpdatedAt:          submittedAt,
	}
}

var _ = Describe("GrievanceRepository", func() {
	var (
		db   *gorm.DB
		repo *GrievanceRepository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&grievanceDatamodel.Grievance{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewGrievanceRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should persist a grievance and assign an ID", func() {
			g := sample("GRV-00042", "asha@mail.com", time.Now())

			err := repo.Create(g)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.ID).To(BeNumerically(">", 0))
		})

		It("should persist optional location coordinates", func() {
			g := sample("GRV-00042", "asha@mail.com", time.Now())
			g.Location = &grievance.Location{Lat: 12.9716, Lon: 77.5946}

			err := repo.Create(g)
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetByTrackingID("GRV-00042")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Location).NotTo(BeNil())
			Expect(stored.Location.Lat).To(Equal(12.9716))
			Expect(stored.Location.Lon).To(Equal(77.5946))
		})

		It("should reject a duplicate tracking ID", func() {
			first := sample("GRV-00042", "asha@mail.com", time.Now())
			Expect(repo.Create(first)).To(Succeed())

			second := sample("GRV-00042", "ravi@mail.com", time.Now())
			err := repo.Create(second)

			Expect(err).To(MatchError(grievance.ErrDuplicateTrackingID))
		})
	})

	Describe("GetByTrackingID", func() {
		It("should return a stored grievance", func() {
			g := sample("GRV-00042", "asha@mail.com", time.Now())
			Expect(repo.Create(g)).To(Succeed())

			stored, err := repo.GetByTrackingID("GRV-00042")

			Expect(err).NotTo(HaveOccurred())
			Expect(stored.SubmittedBy).To(Equal("asha@mail.com"))
			Expect(stored.Status).To(Equal(grievance.StatusPending))
		})

		It("should return not found for unknown IDs", func() {
			_, err := repo.GetByTrackingID("GRV-99999")

			Expect(err).To(MatchError(grievance.ErrGrievanceNotFound))
		})
	})

	Describe("GetBySubmitter", func() {
		It("should return only the submitter's grievances, newest first", func() {
			base := time.Now().Add(-time.Hour)
			Expect(repo.Create(sample("GRV-00001", "asha@mail.com", base))).To(Succeed())
			Expect(repo.Create(sample("GRV-00002", "ravi@mail.com", base.Add(10*time.Minute)))).To(Succeed())
			Expect(repo.Create(sample("GRV-00003", "asha@mail.com", base.Add(20*time.Minute)))).To(Succeed())

			result, err := repo.GetBySubmitter("asha@mail.com", 20, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(result[0].TrackingID).To(Equal("GRV-00003"))
			Expect(result[1].TrackingID).To(Equal("GRV-00001"))
		})

		It("should return an empty slice for submitters with nothing", func() {
			result, err := repo.GetBySubmitter("nobody@mail.com", 20, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})

	Describe("GetAll", func() {
		It("should return everything, newest first, with pagination", func() {
			base := time.Now().Add(-time.Hour)
			Expect(repo.Create(sample("GRV-00001", "asha@mail.com", base))).To(Succeed())
			Expect(repo.Create(sample("GRV-00002", "ravi@mail.com", base.Add(10*time.Minute)))).To(Succeed())
			Expect(repo.Create(sample("GRV-00003", "meena@mail.com", base.Add(20*time.Minute)))).To(Succeed())

			page, err := repo.GetAll(2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
			Expect(page[0].TrackingID).To(Equal("GRV-00003"))

			rest, err := repo.GetAll(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
			Expect(rest[0].TrackingID).To(Equal("GRV-00001"))
		})
	})

	Describe("UpdateStatus", func() {
		It("should update the status and timestamp", func() {
			g := sample("GRV-00042", "asha@mail.com", time.Now().Add(-time.Hour))
			Expect(repo.Create(g)).To(Succeed())

			updatedAt := time.Now()
			err := repo.UpdateStatus("GRV-00042", grievance.StatusInProgress, updatedAt)
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetByTrackingID("GRV-00042")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(grievance.StatusInProgress))
		})

		It("should return not found for unknown IDs", func() {
			err := repo.UpdateStatus("GRV-99999", grievance.StatusResolved, time.Now())

			Expect(err).To(MatchError(grievance.ErrGrievanceNotFound))
		})
	})
})
