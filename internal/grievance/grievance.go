package grievance

import (
	"errors"
	"time"

	grievanceDatamodel "github.com/civicworks/grievance-management/internal/core/datamodel/grievance"
)

// Grievance statuses. Any status can be set from any other by an admin;
// there is deliberately no transition state machine.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Grievance struct {
	ID                 int64     `json:"id"`
	TrackingID         string    `json:"tracking_id"`
	Category           string    `json:"category"`
	Description        string    `json:"description"`
	ImageName          *string   `json:"image_name,omitempty"`
	ImageMIME          *string   `json:"image_mime,omitempty"`
	Location           *Location `json:"location,omitempty"`
	SubmittedBy        string    `json:"submitted_by"`
	Status             string    `json:"status"`
	Summary            string    `json:"summary"`
	AssignedDepartment string    `json:"assigned_department"`
	NextSteps          string    `json:"next_steps"`
	SubmittedAt        time.Time `json:"submitted_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Domain errors
var (
	ErrGrievanceNotFound    = errors.New("grievance not found")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to grievance")
	ErrInvalidStatus        = errors.New("invalid grievance status")
	ErrDuplicateTrackingID  = errors.New("tracking ID already exists")
	ErrClassificationFailed = errors.New("classification failed")
)

func ToDataModel(g *Grievance) *grievanceDatamodel.Grievance {
	dm := &grievanceDatamodel.Grievance{
		ID:                 g.ID,
		TrackingID:         g.TrackingID,
		Category:           g.Category,
		Description:        g.Description,
		ImageName:          g.ImageName,
		ImageMIME:          g.ImageMIME,
		SubmittedBy:        g.SubmittedBy,
		Status:             g.Status,
		Summary:            g.Summary,
		AssignedDepartment: g.AssignedDepartment,
		NextSteps:          g.NextSteps,
		SubmittedAt:        g.SubmittedAt,
		UpdatedAt:          g.UpdatedAt,
	}
	if g.Location != nil {
		lat, lon := g.Location.Lat, g.Location.Lon
		dm.Latitude = &lat
		dm.Longitude = &lon
	}
	return dm
}

func FromDataModel(dm *grievanceDatamodel.Grievance) *Grievance {
	g := &Grievance{
		ID:                 dm.ID,
		TrackingID:         dm.TrackingID,
		Category:           dm.Category,
		Description:        dm.Description,
		ImageName:          dm.ImageName,
		ImageMIME:          dm.ImageMIME,
		SubmittedBy:        dm.SubmittedBy,
		Status:             dm.Status,
		Summary:            dm.Summary,
		AssignedDepartment: dm.AssignedDepartment,
		NextSteps:          dm.NextSteps,
		SubmittedAt:        dm.SubmittedAt,
		UpdatedAt:          dm.UpdatedAt,
	}
	if dm.Latitude != nil && dm.Longitude != nil {
		g.Location = &Location{Lat: *dm.Latitude, Lon: *dm.Longitude}
	}
	return g
}
