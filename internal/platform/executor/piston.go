package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/common"
)

const DefaultPistonURL = "https://emkc.org/api/v2/piston"

type pistonFile struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language       string       `json:"language"`
	Version        string       `json:"version"`
	Files          []pistonFile `json:"files"`
	Stdin          string       `json:"stdin"`
	RunTimeout     int          `json:"run_timeout,omitempty"`
	CompileTimeout int          `json:"compile_timeout,omitempty"`
	RunMemoryLimit *int64       `json:"run_memory_limit,omitempty"`
}

type pistonError struct {
	Message string `json:"message"`
}

// PistonClient runs code on a Piston v2 API. It never retries.
type PistonClient struct {
	baseURL string
	http    *http.Client
}

func NewPistonClient(baseURL string, timeout time.Duration) *PistonClient {
	if baseURL == "" {
		baseURL = DefaultPistonURL
	}
	return &PistonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *PistonClient) Execute(ctx context.Context, req Request) (*Result, error) {
	body := pistonRequest{
		Language:       req.Language,
		Version:        req.Version,
		Files:          []pistonFile{{Content: req.Code}},
		Stdin:          req.Stdin,
		RunTimeout:     req.RunTimeoutMs,
		CompileTimeout: req.CompileTimeoutMs,
	}
	if req.MemoryLimitMb > 0 {
		limit := int64(req.MemoryLimitMb) << 20
		body.RunMemoryLimit = &limit
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("piston: marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("piston: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	result := &Result{}
	if err := c.do(httpReq, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *PistonClient) Runtimes(ctx context.Context) ([]Runtime, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("piston: build request: %w", err)
	}
	var runtimes []Runtime
	if err := c.do(httpReq, &runtimes); err != nil {
		return nil, err
	}
	return runtimes, nil
}

func (c *PistonClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("piston: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("piston: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("piston: %w", common.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var perr pistonError
		if json.Unmarshal(data, &perr) == nil && perr.Message != "" {
			msg = perr.Message
		}
		return fmt.Errorf("piston: status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("piston: decode response: %w", err)
	}
	return nil
}
