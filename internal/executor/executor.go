package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"register-schedule-backend/config"
	"register-schedule-backend/internal/engine"
	"register-schedule-backend/internal/model"
)

// Result describes a completed register action as reported by the
// terminal service.
type Result struct {
	ReportID       string `json:"reportId"`
	CashRegisterID string `json:"cashRegisterId"`
}

// Executor performs the actual cash-register open/close action. The
// decision engine never calls it directly; the poller does, and appends
// the outcome to the execution log.
type Executor interface {
	Execute(ctx context.Context, clientID int64, op engine.Operation, period *model.SchedulePeriod) (*Result, error)
}

// terminalResponse models the terminal service's response envelope.
type terminalResponse struct {
	Code int    `json:"code"`
	Data Result `json:"data"`
}

// HTTPExecutor invokes the register terminal service over HTTP.
type HTTPExecutor struct {
	cfg    config.TerminalConfig
	client *http.Client
}

// NewHTTPExecutor creates an executor for the configured terminal endpoint.
func NewHTTPExecutor(cfg config.TerminalConfig) *HTTPExecutor {
	return &HTTPExecutor{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Execute posts the open/close command for one client and returns the
// terminal's report identifiers.
func (e *HTTPExecutor) Execute(ctx context.Context, clientID int64, op engine.Operation, period *model.SchedulePeriod) (*Result, error) {
	payload := map[string]any{
		"clientId":  clientID,
		"operation": op.String(),
	}
	if period != nil {
		payload["periodId"] = period.ID
		payload["periodName"] = period.PeriodName
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range e.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("terminal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("terminal returned non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal response: %w", err)
	}

	var termResp terminalResponse
	if err := json.Unmarshal(body, &termResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal terminal response: %w", err)
	}

	if termResp.Code != 0 {
		return nil, fmt.Errorf("terminal returned non-zero application code: %d", termResp.Code)
	}

	return &termResp.Data, nil
}
