package postgres

import (
	"errors"
	"strings"
	"time"

	grievanceDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/grievance"
	"github.com/civicworks/grievance-management/internal/grievance"
	"gorm.io/gorm"
)

type GrievanceRepository struct {
	db *gorm.DB
}

func NewGrievanceRepository(db *gorm.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

func (r *GrievanceRepository) Create(g *grievance.Grievance) error {
	dm := grievance.ToDataModel(g)

	if err := r.db.Create(dm).Error; err != nil {
		if isDuplicateKeyError(err) {
			return grievance.ErrDuplicateTrackingID
		}
		return err
	}

	g.ID = dm.ID
	return nil
}

func (r *GrievanceRepository) GetByTrackingID(trackingID string) (*grievance.Grievance, error) {
	var dm grievanceDatamodel.Grievance

	err := r.db.Where("tracking_id = ?", trackingID).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, grievance.ErrGrievanceNotFound
		}
		return nil, err
	}

	return grievance.FromDataModel(&dm), nil
}

// GetBySubmitter returns the submitter's grievances newest first.
func (r *GrievanceRepository) GetBySubmitter(email string, limit, offset int) ([]*grievance.Grievance, error) {
	var dms []grievanceDatamodel.Grievance

	err := r.db.Where("submitted_by = ?", email).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dms), nil
}

func (r *GrievanceRepository) GetAll(limit, offset int) ([]*grievance.Grievance, error) {
	var dms []grievanceDatamodel.Grievance

	err := r.db.Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dms), nil
}

func toDomainSlice(dms []grievanceDatamodel.Grievance) []*grievance.Grievance {
	result := make([]*grievance.Grievance, len(dms))
	for i := range dms {
		result[i] = grievance.FromDataModel(&dms[i])
	}
	return result
}

func (r *GrievanceRepository) UpdateStatus(trackingID, status string, updatedAt time.Time) error {
	result := r.db.Model(&grievanceDatamodel.Grievance{}).
		Where("tracking_id = ?", trackingID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return grievance.ErrGrievanceNotFound
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgx surfaces 23505, sqlite says UNIQUE constraint failed
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
