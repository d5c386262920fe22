// Package remote adapts the cloud NLU provider behind ports.RemoteParser.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
)

// HTTPParser calls a JSON-over-HTTP NLU endpoint. Every call is bounded by
// the configured timeout on top of the caller's context.
type HTTPParser struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPParser builds the adapter from config. The API key is read from
// the environment variable the config names, never stored in the file.
func NewHTTPParser(cfg domain.RemoteSettings) *HTTPParser {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = domain.DefaultRemoteTimeout
	}
	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	return &HTTPParser{
		endpoint:   cfg.Endpoint,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Available implements ports.RemoteParser.
func (p *HTTPParser) Available() bool {
	return p.endpoint != ""
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse implements ports.RemoteParser. A response with no action is "the
// provider produced nothing usable" and returns nil without error.
func (p *HTTPParser) Parse(ctx context.Context, text string) (*domain.RemoteParse, error) {
	if !p.Available() {
		return nil, nil
	}
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("remote parser: %s", resp.Status)
	}

	var parsed domain.RemoteParse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("remote parser: decode response: %w", err)
	}
	if strings.TrimSpace(parsed.Action) == "" {
		return nil, nil
	}
	return &parsed, nil
}
