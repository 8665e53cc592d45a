package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/util"
)

// RemoteRecognizer calls an external NER service over HTTP.
// Request: {"text": "..."}; response: {"entities": [{"label": "...", "text": "..."}]}.
type RemoteRecognizer struct {
	url        string
	httpClient *http.Client
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Entities []model.EntitySpan `json:"entities"`
}

type remoteError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewRemoteRecognizer creates a recognizer for the service at url
func NewRemoteRecognizer(url string, timeout time.Duration) *RemoteRecognizer {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RemoteRecognizer{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc("", "", ""),
			},
		},
	}
}

// Name returns the backend name
func (r *RemoteRecognizer) Name() string {
	return "remote"
}

// Recognize posts text to the service and groups the returned spans by label
func (r *RemoteRecognizer) Recognize(ctx context.Context, text string) (model.Entities, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NER service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr remoteError
		if err := json.Unmarshal(respBody, &apiErr); err == nil {
			if msg := firstNonEmpty(apiErr.Error, apiErr.Detail); msg != "" {
				return nil, fmt.Errorf("NER service error (status %d): %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("NER service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed remoteResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return model.EntitiesFromSpans(parsed.Entities), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
