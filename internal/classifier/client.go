package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	classifiertypes "github.com/civicworks/grievance-management/internal/core/datamodel/classifier"
)

// systemInstruction steers the model toward structured triage output.
const systemInstruction = `You are an AI assistant for a public grievance system. Analyze the citizen's complaint and respond with a JSON object containing: a tracking ID in the format "GRV-" followed by a 5-digit number, a one-sentence summary of the issue, the government department responsible for resolving it, and the recommended next steps for that department. Be concise and factual.`

var (
	ErrUnavailable       = errors.New("classification service unavailable")
	ErrMalformedResponse = errors.New("malformed classification response")
	ErrSchemaViolation   = errors.New("classification response missing required fields")
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls a Gemini-compatible generateContent endpoint to classify
// grievances into department assignments.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		model:      config.Model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContentRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"response_mime_type"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to the four fields the system needs.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"trackingId": {"type": "STRING", "description": "A unique tracking ID, format GRV-XXXXX"},
		"summary": {"type": "STRING", "description": "One-sentence summary of the grievance"},
		"assignedDepartment": {"type": "STRING", "description": "Responsible government department"},
		"nextSteps": {"type": "STRING", "description": "Recommended next steps for the department"}
	},
	"required": ["trackingId", "summary", "assignedDepartment", "nextSteps"]
}`)

func (c *Client) Classify(ctx context.Context, req *classifiertypes.ClassificationRequest) (*classifiertypes.Classification, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Info("classifier: sending classification request",
		"model", c.model,
		"category", req.Category,
		"has_image", req.HasImage(),
		"has_location", req.HasLocation())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("classifier: HTTP request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("classifier: non-OK status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: API returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var apiResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrMalformedResponse, err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", ErrMalformedResponse)
	}

	text := apiResp.Candidates[0].Content.Parts[0].Text

	var classification classifiertypes.Classification
	if err := json.Unmarshal([]byte(text), &classification); err != nil {
		c.logger.Error("classifier: candidate text is not valid JSON", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := classification.ValidateSchema(); err != nil {
		c.logger.Error("classifier: schema validation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	c.logger.Info("classifier: classification complete",
		"tracking_id", classification.TrackingID,
		"assigned_department", classification.AssignedDepartment)

	return &classification, nil
}

func (c *Client) buildRequest(req *classifiertypes.ClassificationRequest) generateContentRequest {
	prompt := fmt.Sprintf("A citizen has submitted a grievance.\nCategory: %s\nDescription: %s", req.Category, req.Description)
	if req.HasLocation() {
		prompt += fmt.Sprintf("\nLocation: latitude %.6f, longitude %.6f", *req.Latitude, *req.Longitude)
	}

	parts := []generatePart{{Text: prompt}}
	if req.HasImage() {
		parts = append(parts, generatePart{
			InlineData: &inlineData{
				MIMEType: req.ImageMIME,
				Data:     base64.StdEncoding.EncodeToString(req.ImageData),
			},
		})
	}

	return generateContentRequest{
		SystemInstruction: &generateContent{
			Parts: []generatePart{{Text: systemInstruction}},
		},
		Contents: []generateContent{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}
}
