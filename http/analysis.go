package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/policylens"
)

// DefaultAnalysisTimeout bounds one remote analysis request.
const DefaultAnalysisTimeout = 2 * time.Minute

// analysisRequest is the body of POST /analyze.
type analysisRequest struct {
	PrivacyPolicy *string `json:"privacy_policy"`
}

// analysisResponse is the success body of POST /analyze.
type analysisResponse struct {
	Analysis string `json:"analysis"`
}

// errorResponse is the failure body of POST /analyze.
type errorResponse struct {
	Message string `json:"message"`
}

// Ensure AnalysisClient implements policylens.RemoteBackend.
var _ policylens.RemoteBackend = (*AnalysisClient)(nil)

// AnalysisClient is a RemoteBackend posting whole policies to an analysis
// endpoint.
type AnalysisClient struct {
	endpoint string
	client   *http.Client
}

// NewAnalysisClient returns a client for the endpoint URL. If client is nil,
// one with DefaultAnalysisTimeout is used.
func NewAnalysisClient(endpoint string, client *http.Client) *AnalysisClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultAnalysisTimeout}
	}
	return &AnalysisClient{endpoint: endpoint, client: client}
}

// Mode returns policylens.BackendRemote.
func (c *AnalysisClient) Mode() policylens.BackendMode {
	return policylens.BackendRemote
}

// AnalyzePolicy posts the prompt-wrapped text and returns the analysis.
// Cancellation of ctx aborts the request in flight.
func (c *AnalysisClient) AnalyzePolicy(ctx context.Context, text string) (string, error) {
	prompt := policylens.SummaryPrompt(text)
	body, err := json.Marshal(analysisRequest{PrivacyPolicy: &prompt})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", policylens.Errorf(policylens.EBACKEND, "invalid analysis endpoint %q: %v", c.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", policylens.Errorf(policylens.EBACKEND, "analysis request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return "", policylens.Errorf(policylens.EBACKEND, "analysis endpoint returned HTTP %d: %s", resp.StatusCode, e.Message)
		}
		return "", policylens.Errorf(policylens.EBACKEND, "analysis endpoint returned HTTP %d", resp.StatusCode)
	}

	var out analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", policylens.Errorf(policylens.EBACKEND, "invalid analysis response: %v", err)
	}
	return out.Analysis, nil
}
