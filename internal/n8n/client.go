// Package n8n talks to the external workflow-automation engine: stage webhooks for triggering work and the
// executions API for status.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/config"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/util"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"
)

const collaborator = "workflow engine"

// Client holds the engine endpoints and credentials.
type Client struct {
	WebhookURL     string
	ApiURL         string
	ApiKey         string
	NotifyAttempts int           // deliveries per notification, at least 1
	RetryBackoff   time.Duration // wait before the second attempt, doubled after each failure
	HTTPClient     *http.Client
	Clock          core.Clock
}

func NewClient(webhookURL, apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		WebhookURL:     strings.TrimRight(webhookURL, "/"),
		ApiURL:         strings.TrimRight(apiURL, "/"),
		ApiKey:         apiKey,
		NotifyAttempts: 1,
		RetryBackoff:   500 * time.Millisecond,
		HTTPClient:     &http.Client{Timeout: timeout},
		Clock:          core.NewRealClock(),
	}
}

// NewClientFromSettings builds a client from the NFLOW_WORKFLOW_ENGINE_* settings.
func NewClientFromSettings() *Client {
	c := NewClient(
		config.GetSystemSettingString(config.WORKFLOW_ENGINE_WEBHOOK_URL),
		config.GetSystemSettingString(config.WORKFLOW_ENGINE_API_URL),
		config.GetSystemSettingString(config.WORKFLOW_ENGINE_API_KEY),
		config.GetSystemSettingDuration(config.WORKFLOW_ENGINE_TIMEOUT),
	)
	if n := config.GetSystemSettingInteger(config.WORKFLOW_ENGINE_NOTIFY_ATTEMPTS); n > 0 {
		c.NotifyAttempts = n
	}
	return c
}

// Execution is the subset of an upstream execution record the status view needs.
type Execution struct {
	ID           any     `json:"id"`
	Finished     bool    `json:"finished"`
	StartedAt    *string `json:"startedAt"`
	StoppedAt    *string `json:"stoppedAt"`
	WorkflowData *struct {
		Name string `json:"name"`
	} `json:"workflowData"`
	Data *struct {
		ResultData *struct {
			Error any `json:"error"`
		} `json:"resultData"`
	} `json:"data"`
}

type executionList struct {
	Data []Execution `json:"data"`
}

// Summary reshapes the execution; status is derived only from the finished flag.
func (e Execution) Summary() models.ExecutionSummary {
	s := models.ExecutionSummary{
		ID:        e.ID,
		Status:    "running",
		StartTime: e.StartedAt,
		EndTime:   e.StoppedAt,
	}
	if e.Finished {
		s.Status = "completed"
	}
	if e.WorkflowData != nil {
		s.WorkflowName = e.WorkflowData.Name
	}
	if e.Data != nil && e.Data.ResultData != nil {
		s.Error = e.Data.ResultData.Error
	}
	return s
}

// Notify posts the advancement notification to the stage webhook. Every attempt carries the same
// idempotency key so a receiving engine can drop repeats. Only transport failures, 429 and 5xx are retried.
func (c *Client) Notify(ctx context.Context, stage string, n models.AdvancementNotification, idempotencyKey string) error {
	attempts := c.NotifyAttempts
	if attempts < 1 {
		attempts = 1
	}
	clock := c.Clock
	if clock == nil {
		clock = core.NewRealClock()
	}
	backoff := c.RetryBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var resp *http.Response
		resp, err = c.post(ctx, c.WebhookURL+"/"+stage, n, idempotencyKey)
		if err == nil {
			drain(resp)
			return nil
		}
		if !retryable(err) || attempt == attempts {
			break
		}
		slog.WarnContext(ctx, "Stage notification failed, retrying", "stage", stage, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// TriggerWorkflow starts one of the top-level workflows and returns the workflow id the engine reports.
func (c *Client) TriggerWorkflow(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error) {
	var body any = cfg
	if len(cfg) == 0 {
		body = nil
	}
	resp, err := c.post(ctx, c.WebhookURL+"/"+workflowType, body, "")
	if err != nil {
		return nil, fmt.Errorf("workflow %s failed: %w", workflowType, err)
	}
	result, err := util.DecodeJSONBodyResponse[map[string]any](resp)
	if err != nil {
		return nil, fmt.Errorf("workflow %s returned an unreadable response: %w", workflowType, err)
	}
	return result["workflowId"], nil
}

// GetExecution returns the upstream execution document untouched. The id is always a single path segment.
func (c *Client) GetExecution(ctx context.Context, id string) (json.RawMessage, error) {
	resp, err := c.get(ctx, c.ApiURL+"/executions/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow status: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow status: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to get workflow status: %s returned invalid JSON", collaborator)
	}
	return json.RawMessage(raw), nil
}

// ListExecutions returns the most recent executions, newest first as ordered by the engine.
func (c *Client) ListExecutions(ctx context.Context, limit int) ([]Execution, error) {
	resp, err := c.get(ctx, c.ApiURL+"/executions?limit="+strconv.Itoa(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow list: %w", err)
	}
	list, err := util.DecodeJSONBodyResponse[executionList](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow list: %w", err)
	}
	return list.Data, nil
}

func (c *Client) post(ctx context.Context, target string, body any, idempotencyKey string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return c.do(req)
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// do sends the request with the bearer credential and turns transport failures and non-2xx answers
// into *models.DownstreamError. On success the caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &models.DownstreamError{Collaborator: collaborator, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp)
		return nil, &models.DownstreamError{
			Collaborator: collaborator,
			StatusCode:   resp.StatusCode,
			Status:       resp.Status,
		}
	}
	return resp, nil
}

func retryable(err error) bool {
	var de *models.DownstreamError
	if !errors.As(err, &de) {
		return false
	}
	return de.StatusCode == 0 || de.StatusCode == http.StatusTooManyRequests || de.StatusCode >= 500
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
