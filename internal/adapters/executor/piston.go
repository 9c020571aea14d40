// Package executor talks to a Piston-compatible code execution service.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/rs/zerolog/log"
)

const maxResponseSize = 4 << 20

var (
	ErrUpstreamStatus    = errors.New("execution service returned non-success status")
	ErrMalformedResponse = errors.New("execution service returned a malformed body")
)

type file struct {
	Content string `json:"content"`
}

type executeRequest struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Files    []file `json:"files"`
}

// Client posts source text to <base>/execute. It applies no timeout of its
// own; the caller's context and the http.Client decide.
type Client struct {
	endpoint string
	http     *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	endpoint := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(endpoint, "/execute") {
		endpoint += "/execute"
	}
	return &Client{endpoint: endpoint, http: hc}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Execute returns the service's JSON object untouched.
func (c *Client) Execute(ctx context.Context, req core.ExecRequest) (json.RawMessage, error) {
	version := req.Version
	if version == "" {
		version = core.AnyVersion
	}
	body, err := json.Marshal(executeRequest{
		Language: req.Language,
		Version:  version,
		Files:    []file{{Content: req.Code}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode execute request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build execute request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call execution service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read execute response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Str("module", "adapters.executor").Int("status", resp.StatusCode).Str("language", req.Language).Msg("upstream rejected execution")
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil, ErrMalformedResponse
	}
	return json.RawMessage(raw), nil
}
