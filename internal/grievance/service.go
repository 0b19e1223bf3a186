package grievance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civicworks/grievance-management/internal/auth"
	classifierTypes "github.com/civicworks/grievance-management/internal/core/datamodel/classifier"
	"github.com/civicworks/grievance-management/internal/core/events"
	"github.com/civicworks/grievance-management/internal/transport/metrics"
)

// Classifier sends a submission to the generative model and returns the
// structured classification.
type Classifier interface {
	Classify(ctx context.Context, req *classifierTypes.ClassificationRequest) (*classifierTypes.Classification, error)
}

// CategoryValidator reports whether a category name is an active category.
type CategoryValidator interface {
	IsValidCategory(name string) bool
}

// EventPublisher fans out grievance lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Repository defines the data access methods for grievances.
type Repository interface {
	Create(g *Grievance) error
	GetByTrackingID(trackingID string) (*Grievance, error)
	GetBySubmitter(email string, limit, offset int) ([]*Grievance, error)
	GetAll(limit, offset int) ([]*Grievance, error)
	UpdateStatus(trackingID, status string, updatedAt time.Time) error
}

// Service orchestrates the submission workflow: validate, classify, insert
// with status Pending, announce. Nothing is persisted when classification
// fails.
type Service struct {
	repo         Repository
	classifier   Classifier
	categories   CategoryValidator
	bus          EventPublisher
	maxImageSize int64
	logger       *slog.Logger
}

func NewService(repo Repository, classifier Classifier, categories CategoryValidator, bus EventPublisher, maxImageSize int64, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		classifier:   classifier,
		categories:   categories,
		bus:          bus,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

func (s *Service) Submit(ctx context.Context, submittedBy string, dto SubmitGrievanceDTO) (*Grievance, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("grievance validation failed", "error", err, "submitted_by", submittedBy)
		return nil, err
	}

	if s.categories != nil && !s.categories.IsValidCategory(dto.Category) {
		s.logger.Warn("unknown grievance category", "category", dto.Category, "submitted_by", submittedBy)
		return nil, fmt.Errorf("unknown category: %s", dto.Category)
	}

	imageData, err := dto.DecodeImage(s.maxImageSize)
	if err != nil {
		s.logger.Error("image decoding failed", "error", err, "submitted_by", submittedBy)
		return nil, err
	}

	req := &classifierTypes.ClassificationRequest{
		Category:    dto.Category,
		Description: dto.Description,
	}
	if dto.Location != nil {
		lat, lon := dto.Location.Lat, dto.Location.Lon
		req.Latitude = &lat
		req.Longitude = &lon
	}
	if imageData != nil {
		req.ImageData = imageData
		req.ImageMIME = dto.Image.MIME
	}

	result, err := s.classifier.Classify(ctx, req)
	if err != nil {
		s.logger.Error("classification failed", "error", err, "submitted_by", submittedBy, "category", dto.Category)
		metrics.RecordClassificationFailure()
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}

	now := time.Now()
	g := &Grievance{
		TrackingID:         result.TrackingID,
		Category:           dto.Category,
		Description:        dto.Description,
		SubmittedBy:        submittedBy,
		Status:             StatusPending,
		Summary:            result.Summary,
		AssignedDepartment: result.AssignedDepartment,
		NextSteps:          result.NextSteps,
		SubmittedAt:        now,
		UpdatedAt:          now,
	}
	if dto.Image != nil {
		name, mime := dto.Image.Name, dto.Image.MIME
		g.ImageName = &name
		g.ImageMIME = &mime
	}
	if dto.Location != nil {
		g.Location = &Location{Lat: dto.Location.Lat, Lon: dto.Location.Lon}
	}

	if err := s.repo.Create(g); err != nil {
		s.logger.Error("failed to store grievance", "error", err, "tracking_id", g.TrackingID)
		return nil, err
	}

	metrics.RecordGrievanceSubmitted(g.Category)
	s.logger.Info("grievance submitted",
		"tracking_id", g.TrackingID,
		"category", g.Category,
		"submitted_by", submittedBy,
		"assigned_department", g.AssignedDepartment)

	if s.bus != nil {
		event := events.NewGrievanceSubmittedEvent(g.TrackingID, g.Category, g.SubmittedBy, g.AssignedDepartment)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish submitted event", "error", err, "tracking_id", g.TrackingID)
		}
	}

	return g, nil
}

// GetByTrackingID retrieves a grievance with access control: citizens can
// only see their own submissions, admins see everything.
func (s *Service) GetByTrackingID(trackingID string, caller *auth.User) (*Grievance, error) {
	g, err := s.repo.GetByTrackingID(trackingID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && g.SubmittedBy != caller.Email {
		s.logger.Warn("unauthorized grievance access",
			"tracking_id", trackingID,
			"caller", caller.Email,
			"submitted_by", g.SubmittedBy)
		return nil, ErrUnauthorizedAccess
	}

	return g, nil
}

// List returns grievances scoped by role: the caller's own for citizens,
// all of them for admins. Both newest-first.
func (s *Service) List(caller *auth.User, limit, offset int) ([]*Grievance, error) {
	if caller.IsAdmin() {
		return s.repo.GetAll(limit, offset)
	}
	return s.repo.GetBySubmitter(caller.Email, limit, offset)
}

// UpdateStatus sets a new status on a grievance. Admin only; any status can
// be set from any other, and re-applying the current status is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, trackingID, newStatus string, caller *auth.User) (*Grievance, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("status update denied: admin role required",
			"tracking_id", trackingID,
			"caller", caller.Email)
		return nil, ErrUnauthorizedAccess
	}

	if !ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	g, err := s.repo.GetByTrackingID(trackingID)
	if err != nil {
		return nil, err
	}

	if g.Status == newStatus {
		return g, nil
	}

	oldStatus := g.Status
	now := time.Now()
	if err := s.repo.UpdateStatus(trackingID, newStatus, now); err != nil {
		s.logger.Error("failed to update grievance status", "error", err, "tracking_id", trackingID)
		return nil, err
	}
	g.Status = newStatus
	g.UpdatedAt = now

	s.logger.Info("grievance status updated",
		"tracking_id", trackingID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"changed_by", caller.Email)

	if s.bus != nil {
		event := events.NewGrievanceStatusChangedEvent(trackingID, g.SubmittedBy, oldStatus, newStatus, caller.Email)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish status change event", "error", err, "tracking_id", trackingID)
		}
	}

	return g, nil
}
