package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/greenloop/greenloop-backend/internal/logger"
)

type httpAnalyzer struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type analyzerHTTPError struct {
	StatusCode int
	Body       string
}

func (e *analyzerHTTPError) Error() string {
	return fmt.Sprintf("analyzer http %d: %s", e.StatusCode, e.Body)
}

// NewHTTPAnalyzer talks to the external vision/AI claim verification
// service over its JSON API.
func NewHTTPAnalyzer(log *logger.Logger) (Analyzer, error) {
	baseURL := strings.TrimSpace(os.Getenv("ANALYZER_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing ANALYZER_BASE_URL")
	}
	apiKey := strings.TrimSpace(os.Getenv("ANALYZER_API_KEY"))

	timeoutSec := 60
	if v := os.Getenv("ANALYZER_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &httpAnalyzer{
		log:        log.With("client", "HTTPAnalyzer"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (a *httpAnalyzer) AnalyzeClaim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal claim request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/claims/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build claim request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyzer call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &analyzerHTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result ClaimResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	a.log.Debug("Analyzer verdict",
		"status", result.Status,
		"item_name", result.ItemName,
		"status_reason", result.StatusReason,
		"reverify_required", result.ReverifyRequired,
	)
	return &result, nil
}
