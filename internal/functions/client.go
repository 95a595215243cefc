package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	ParseCV         = "profile-parse-cv"
	TrackGigClick   = "track-external-gig-click"
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 512
)

// Client calls the platform's serverless functions on behalf of a user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoffs   []time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// SetBackoffs replaces the waits between retries.
func (c *Client) SetBackoffs(backoffs ...time.Duration) {
	c.backoffs = backoffs
}

// Error is a non-2xx answer from a function.
type Error struct {
	Function string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function %s failed: status %d: %s", e.Function, e.Status, e.Message)
}

// Invoke POSTs payload as JSON to the named function, forwarding the caller's
// bearer token, and decodes the response into out when out is not nil.
func (c *Client) Invoke(ctx context.Context, name, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Function: name, Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyLen {
		text = text[:maxErrorBodyLen]
	}
	return text
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(c.backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled after %d attempts: %w", i+1, lastErr)
		case <-time.After(c.backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// ParsedCV is the subset of the CV parser's output the onboarding wizard uses.
type ParsedCV struct {
	BasicInfo struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Headline  string `json:"headline"`
		Location  string `json:"location"`
	} `json:"basicInfo"`
	WorkExperience []ParsedExperience `json:"workExperience"`
	Summary        string             `json:"summary"`
}

type ParsedExperience struct {
	Company          string `json:"company"`
	JobTitle         string `json:"jobTitle"`
	StartDateMonth   string `json:"startDateMonth"`
	StartDateYear    int    `json:"startDateYear"`
	EndDateMonth     string `json:"endDateMonth"`
	EndDateYear      int    `json:"endDateYear"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
	Description      string `json:"description"`
	City             string `json:"city"`
}

// StartMonth and EndMonth accept "3", "03", "Mar" or "March"; anything else is 0.
func (e ParsedExperience) StartMonth() int { return monthNumber(e.StartDateMonth) }

func (e ParsedExperience) EndMonth() int { return monthNumber(e.EndDateMonth) }

func monthNumber(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	for i := time.January; i <= time.December; i++ {
		name := strings.ToLower(i.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return int(i)
		}
	}
	return 0
}

type parseCVResponse struct {
	SourceFileID string   `json:"sourceFileId"`
	ParsedData   ParsedCV `json:"parsedData"`
}

// ParseCV asks the CV parser to extract profile data from an uploaded file.
func (c *Client) ParseCV(ctx context.Context, token, sourceFileID string) (*ParsedCV, error) {
	var resp parseCVResponse
	if err := c.Invoke(ctx, ParseCV, token, map[string]string{"sourceFileId": sourceFileID}, &resp); err != nil {
		return nil, err
	}
	return &resp.ParsedData, nil
}

// TrackExternalGigClick records a click on an external gig, retrying on failure.
func (c *Client) TrackExternalGigClick(ctx context.Context, token string, projectID int64, source string) error {
	payload := map[string]any{"project_id": projectID, "click_source": source}
	return c.RetryWithBackoff(ctx, func() error {
		return c.Invoke(ctx, TrackGigClick, token, payload, nil)
	}, 3)
}
