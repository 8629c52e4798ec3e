// Package client is the Go SDK for the dream analysis service. It wraps the HTTP
// API and drives the one-or-two-round analysis flow on behalf of a UI.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Question is one follow-up question from a diagnosable-but-thin analysis.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Symbol pairs a dream symbol with candidate meanings.
type Symbol struct {
	Symbol            string   `json:"symbol"`
	MeaningCandidates []string `json:"meaningCandidates"`
}

// Interpretation is one reading of the dream; the first in a result is the most
// confident.
type Interpretation struct {
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// Result is the analyze response. ID and ShareToken are nil when the server
// could not persist the record.
type Result struct {
	IsDiagnosable        bool             `json:"isDiagnosable"`
	NeedsMoreInfo        bool             `json:"needsMoreInfo"`
	MissingInfoQuestions []Question       `json:"missingInfoQuestions"`
	Title                string           `json:"title"`
	Keywords             []string         `json:"keywords"`
	Facts                []string         `json:"facts"`
	Emotions             []string         `json:"emotions"`
	Symbols              []Symbol         `json:"symbols"`
	Interpretations      []Interpretation `json:"interpretations"`
	Advice               string           `json:"advice"`
	NextActions          []string         `json:"nextActions"`
	ID                   *string          `json:"id"`
	ShareToken           *string          `json:"shareToken"`
}

// StoredDream is a persisted analysis record fetched by id.
type StoredDream struct {
	DreamID      string    `json:"dreamId"`
	OwnerID      *string   `json:"ownerId"`
	Content      string    `json:"content"`
	ShareToken   string    `json:"shareToken"`
	CreationTime time.Time `json:"creationTime"`
}

// APIError is a non-2xx response from the service. RetryAfterSeconds is set for
// rate-limit errors so a UI can show a countdown.
type APIError struct {
	Status            int
	Message           string
	RetryAfterSeconds int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a thin HTTP wrapper over the service API.
type Client struct {
	http   *resty.Client
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithUserID attaches an authenticated user identity to every request.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// WithTimeout overrides the per-request timeout. The default leaves headroom
// above the server's model timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New constructs a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(90 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze submits dream text for one analysis round.
func (c *Client) Analyze(ctx context.Context, dream string) (*Result, error) {
	var out Result
	var apiErr struct {
		Error string `json:"error"`
	}
	req := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"dream": dream}).
		SetResult(&out).
		SetError(&apiErr)
	if c.userID != "" {
		req.SetHeader("X-User-Id", c.userID)
	}

	resp, err := req.Post("/api/analyze")
	if err != nil {
		return nil, fmt.Errorf("analyze request: %w", err)
	}
	if resp.IsError() {
		e := &APIError{Status: resp.StatusCode(), Message: apiErr.Error}
		if resp.StatusCode() == http.StatusTooManyRequests {
			e.RetryAfterSeconds, _ = strconv.Atoi(resp.Header().Get("Retry-After"))
		}
		return nil, e
	}
	return &out, nil
}

// GetDream fetches a stored record, using the share token for access when the
// client is not the record's owner.
func (c *Client) GetDream(ctx context.Context, dreamID, shareToken string) (*StoredDream, error) {
	var out StoredDream
	var apiErr struct {
		Error string `json:"error"`
	}
	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr)
	if shareToken != "" {
		req.SetQueryParam("share", shareToken)
	}
	if c.userID != "" {
		req.SetHeader("X-User-Id", c.userID)
	}

	resp, err := req.Get("/api/dreams/" + dreamID)
	if err != nil {
		return nil, fmt.Errorf("get dream request: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: apiErr.Error}
	}
	return &out, nil
}
