// Package remote implements the persistence gateway as an HTTP client for
// the authoritative store API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/gateway"
)

const defaultTimeout = 10 * time.Second

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client speaks the store's request/response protocol. Any transport-level
// failure or 5xx response maps to gateway.ErrUnavailable so the session
// controller can fall back; a 404 maps to gateway.ErrNotFound.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ gateway.Gateway = (*Client)(nil)

// NewClient creates a client for the store at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorResponse mirrors the API's machine-readable error payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do performs one round trip. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, gateway.ErrUnavailable)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := decodeErrorMessage(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s %s: %s: %w", method, path, msg, gateway.ErrNotFound)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// decodeErrorMessage extracts the human-readable message from an error
// payload, falling back to the raw body.
func decodeErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return "no error detail"
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return strings.TrimSpace(string(data))
}

// GetAll fetches the full snapshot in one call.
func (c *Client) GetAll(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.do(ctx, http.MethodGet, "/data", nil, &snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// createProjectsResponse accepts both wire shapes of the batch-create reply:
// the plain created array on full success, and the {created, error} envelope
// the server sends with 207 Multi-Status on partial success.
type createProjectsResponse struct {
	Created []model.Project
	Err     *errorResponse
}

func (r *createProjectsResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Created)
	}
	var envelope struct {
		Created []model.Project `json:"created"`
		Error   *errorResponse  `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	r.Created = envelope.Created
	r.Err = envelope.Error
	return nil
}

// CreateProjects submits a batch; the server returns every created project
// with its minted identifier. On partial success the already-created items
// are returned alongside an error carrying the server's message.
func (c *Client) CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	var result createProjectsResponse
	if err := c.do(ctx, http.MethodPost, "/projects", projects, &result); err != nil {
		return result.Created, err
	}
	if result.Err != nil {
		return result.Created, fmt.Errorf("POST /projects: %s: %s", result.Err.Code, result.Err.Message)
	}
	return result.Created, nil
}

// UpdateProject replaces the stored project.
func (c *Client) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	var updated model.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+project.ID, project, &updated); err != nil {
		return model.Project{}, err
	}
	return updated, nil
}

// DeleteProject removes the project; the server cascades to its scores.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

// CreateJudge creates a single judge.
func (c *Client) CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	var created model.Judge
	if err := c.do(ctx, http.MethodPost, "/judges", judge, &created); err != nil {
		return model.Judge{}, err
	}
	return created, nil
}

// UpdateJudge replaces the stored judge.
func (c *Client) UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	var updated model.Judge
	if err := c.do(ctx, http.MethodPut, "/judges/"+judge.ID, judge, &updated); err != nil {
		return model.Judge{}, err
	}
	return updated, nil
}

// DeleteJudge removes the judge; the server cascades to their scores.
func (c *Client) DeleteJudge(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/judges/"+id, nil, nil)
}

// CreateCriterion creates a single criterion.
func (c *Client) CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	var created model.Criterion
	if err := c.do(ctx, http.MethodPost, "/criteria", criterion, &created); err != nil {
		return model.Criterion{}, err
	}
	return created, nil
}

// UpdateCriterion replaces the stored criterion.
func (c *Client) UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	var updated model.Criterion
	if err := c.do(ctx, http.MethodPut, "/criteria/"+criterion.ID, criterion, &updated); err != nil {
		return model.Criterion{}, err
	}
	return updated, nil
}

// DeleteCriterion removes the criterion.
func (c *Client) DeleteCriterion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/criteria/"+id, nil, nil)
}

// UpsertScore creates or overwrites one score; the server returns the stored
// score with the stable identifier.
func (c *Client) UpsertScore(ctx context.Context, score model.Score) (model.Score, error) {
	var stored model.Score
	if err := c.do(ctx, http.MethodPost, "/scores", score, &stored); err != nil {
		return model.Score{}, err
	}
	return stored, nil
}

// DeleteScore removes a single score.
func (c *Client) DeleteScore(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/scores/"+id, nil, nil)
}
