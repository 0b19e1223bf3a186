package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeGrievanceSubmitted     = "grievance.submitted"
	EventTypeGrievanceStatusChanged = "grievance.status_changed"
)

type GrievanceSubmittedEvent struct {
	BaseEvent
	TrackingID         string `json:"tracking_id"`
	Category           string `json:"category"`
	SubmittedBy        string `json:"submitted_by"`
	AssignedDepartment string `json:"assigned_department"`
}

func NewGrievanceSubmittedEvent(trackingID, category, submittedBy, assignedDepartment string) *GrievanceSubmittedEvent {
	return &GrievanceSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrievanceSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tracking_id":         trackingID,
				"category":            category,
				"submitted_by":        submittedBy,
				"assigned_department": assignedDepartment,
			},
		},
		TrackingID:         trackingID,
		Category:           category,
		SubmittedBy:        submittedBy,
		AssignedDepartment: assignedDepartment,
	}
}

type GrievanceStatusChangedEvent struct {
	BaseEvent
	TrackingID  string `json:"tracking_id"`
	SubmittedBy string `json:"submitted_by"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ChangedBy   string `json:"changed_by"`
}

func NewGrievanceStatusChangedEvent(trackingID, submittedBy, oldStatus, newStatus, changedBy string) *GrievanceStatusChangedEvent {
	return &GrievanceStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrievanceStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tracking_id":  trackingID,
				"submitted_by": submittedBy,
				"old_status":   oldStatus,
				"new_status":   newStatus,
				"changed_by":   changedBy,
			},
		},
		TrackingID:  trackingID,
		SubmittedBy: submittedBy,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedBy:   changedBy,
	}
}
