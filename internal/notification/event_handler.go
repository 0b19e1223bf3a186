package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civicworks/grievance-management/internal/core/events"
)

// EventHandler turns grievance lifecycle events into citizen notifications.
// Delivery is log-only for now; a mail or SMS sender can hang off the same
// subscription points.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleGrievanceSubmitted(ctx context.Context, event events.Event) error {
	submittedEvent, ok := event.(*events.GrievanceSubmittedEvent)
	if !ok {
		h.logger.Error("invalid event type for grievance submitted handler", "event_type", event.EventType())
		return fmt.Errorf("expected GrievanceSubmittedEvent, got %T", event)
	}

	h.logger.Info("notification: grievance registered",
		"recipient", submittedEvent.SubmittedBy,
		"tracking_id", submittedEvent.TrackingID,
		"category", submittedEvent.Category,
		"assigned_department", submittedEvent.AssignedDepartment,
		"event_id", submittedEvent.EventID())

	return nil
}

func (h *EventHandler) HandleGrievanceStatusChanged(ctx context.Context, event events.Event) error {
	statusEvent, ok := event.(*events.GrievanceStatusChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for status changed handler", "event_type", event.EventType())
		return fmt.Errorf("expected GrievanceStatusChangedEvent, got %T", event)
	}

	h.logger.Info("notification: grievance status updated",
		"recipient", statusEvent.SubmittedBy,
		"tracking_id", statusEvent.TrackingID,
		"old_status", statusEvent.OldStatus,
		"new_status", statusEvent.NewStatus,
		"changed_by", statusEvent.ChangedBy,
		"event_id", statusEvent.EventID())

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeGrievanceSubmitted, h.HandleGrievanceSubmitted)
	eventBus.Subscribe(events.EventTypeGrievanceStatusChanged, h.HandleGrievanceStatusChanged)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeGrievanceSubmitted, events.EventTypeGrievanceStatusChanged})
}
