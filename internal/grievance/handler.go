package grievance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/civicworks/grievance-management/internal"
	"github.com/civicworks/grievance-management/internal/auth"
	"github.com/civicworks/grievance-management/internal/transport"
	"github.com/civicworks/grievance-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, submittedBy string, dto SubmitGrievanceDTO) (*Grievance, error)
	GetByTrackingID(trackingID string, caller *auth.User) (*Grievance, error)
	List(caller *auth.User, limit, offset int) ([]*Grievance, error)
	UpdateStatus(ctx context.Context, trackingID, newStatus string, caller *auth.User) (*Grievance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("Submit: user not found in context")
		h.HandleError(w, apperrors.NewUnauthorizedError("authentication required", apperrors.ErrCodeInvalidToken))
		return
	}

	var dto SubmitGrievanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Submit: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	g, err := h.Service.Submit(r.Context(), user.Email, dto)
	if err != nil {
		h.Logger.Error("Submit: service error", "error", err, "submitted_by", user.Email)

		switch {
		case errors.Is(err, ErrClassificationFailed):
			// all classifier failures collapse to one message for citizens
			h.WriteError(w, http.StatusBadGateway, "failed to submit grievance, the classification service may be busy, please try again later")
		case errors.Is(err, ErrDuplicateTrackingID):
			h.WriteError(w, http.StatusConflict, "tracking ID already exists")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.Logger.Info("Submit: grievance created",
		"tracking_id", g.TrackingID,
		"submitted_by", user.Email,
		"assigned_department", g.AssignedDepartment)

	h.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trackingID := chi.URLParam(r, "trackingID")
	if trackingID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing tracking ID")
		return
	}

	g, err := h.Service.GetByTrackingID(trackingID, user)
	if err != nil {
		switch {
		case errors.Is(err, ErrGrievanceNotFound):
			h.WriteError(w, http.StatusNotFound, "grievance not found")
		case errors.Is(err, ErrUnauthorizedAccess):
			h.WriteError(w, http.StatusForbidden, "access denied")
		default:
			h.Logger.Error("Get: service error", "error", err, "tracking_id", trackingID)
			h.WriteError(w, http.StatusInternalServerError, "failed to get grievance")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	grievances, err := h.Service.List(user, limit, offset)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "caller", user.Email)
		h.WriteError(w, http.StatusInternalServerError, "failed to list grievances")
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Grievances: grievances,
		Limit:      limit,
		Offset:     offset,
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trackingID := chi.URLParam(r, "trackingID")
	if trackingID == "" {
		h.WriteError(w, http.StatusBadRequest, "missing tracking ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.Service.UpdateStatus(r.Context(), trackingID, dto.Status, user)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "tracking_id", trackingID, "caller", user.Email)

		switch {
		case errors.Is(err, ErrGrievanceNotFound):
			h.WriteError(w, http.StatusNotFound, "grievance not found")
		case errors.Is(err, ErrUnauthorizedAccess):
			h.WriteError(w, http.StatusForbidden, "admin access required")
		case errors.Is(err, ErrInvalidStatus):
			h.WriteError(w, http.StatusBadRequest, "invalid status")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}
