package grievance

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ImageDTO carries optional photo evidence as base64. Bytes are forwarded to
// the classifier, never stored.
type ImageDTO struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data string `json:"data"`
}

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SubmitGrievanceDTO is the request payload for submitting a grievance.
type SubmitGrievanceDTO struct {
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Image       *ImageDTO    `json:"image,omitempty"`
	Location    *LocationDTO `json:"location,omitempty"`
}

func (dto SubmitGrievanceDTO) Validate() error {
	if dto.Category == "" {
		return errors.New("category is required")
	}
	if strings.TrimSpace(dto.Description) == "" {
		return errors.New("description is required")
	}
	if dto.Image != nil {
		if dto.Image.Data == "" {
			return errors.New("image data is required when image is provided")
		}
		if !strings.HasPrefix(dto.Image.MIME, "image/") {
			return errors.New("image mime type must be image/*")
		}
	}
	if dto.Location != nil {
		if dto.Location.Lat < -90 || dto.Location.Lat > 90 {
			return errors.New("latitude must be between -90 and 90")
		}
		if dto.Location.Lon < -180 || dto.Location.Lon > 180 {
			return errors.New("longitude must be between -180 and 180")
		}
	}
	return nil
}

// DecodeImage decodes the base64 payload, tolerating a data-URL prefix and
// enforcing the configured size cap.
func (dto SubmitGrievanceDTO) DecodeImage(maxSize int64) ([]byte, error) {
	if dto.Image == nil {
		return nil, nil
	}

	data := dto.Image.Data
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.New("image data is not valid base64")
	}
	if maxSize > 0 && int64(len(decoded)) > maxSize {
		return nil, errors.New("image exceeds maximum allowed size")
	}
	return decoded, nil
}

// UpdateStatusDTO is the request payload for an admin status change.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return errors.New("status is required")
	}
	if !ValidStatus(dto.Status) {
		return errors.New("status must be one of: Pending, In Progress, Resolved")
	}
	return nil
}

type ListResponse struct {
	Grievances []*Grievance `json:"grievances"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}
