package classifier

import (
	"errors"
	"strings"
)

// ClassificationRequest is the structured prompt sent to the generative
// model: category and description always, coordinates and an inline image
// when the citizen provided them.
type ClassificationRequest struct {
	Category    string
	Description string
	Latitude    *float64
	Longitude   *float64
	ImageData   []byte
	ImageMIME   string
}

func (r *ClassificationRequest) Validate() error {
	if r.Category == "" {
		return errors.New("category is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return errors.New("latitude and longitude must be provided together")
	}
	if len(r.ImageData) > 0 && !strings.HasPrefix(r.ImageMIME, "image/") {
		return errors.New("image mime type must be image/*")
	}
	return nil
}

func (r *ClassificationRequest) HasImage() bool {
	return len(r.ImageData) > 0
}

func (r *ClassificationRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Classification is the schema the model must respond with. Every field is
// required; a response missing any of them is rejected.
type Classification struct {
	TrackingID         string `json:"trackingId"`
	Summary            string `json:"summary"`
	AssignedDepartment string `json:"assignedDepartment"`
	NextSteps          string `json:"nextSteps"`
}

// ValidateSchema reports which required fields the model response is missing.
func (c *Classification) ValidateSchema() error {
	var missing []string
	if c.TrackingID == "" {
		missing = append(missing, "trackingId")
	}
	if c.Summary == "" {
		missing = append(missing, "summary")
	}
	if c.AssignedDepartment == "" {
		missing = append(missing, "assignedDepartment")
	}
	if c.NextSteps == "" {
		missing = append(missing, "nextSteps")
	}
	if len(missing) > 0 {
		return errors.New("response missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}
