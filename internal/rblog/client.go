package rblog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NotFoundError indicates the log repository has no log for the requested
// file. Callers treat this as "skip this app", not a crash.
type NotFoundError struct {
	LogFile string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no reproducible-build log found for %s", e.LogFile)
}

// IsNotFound returns true if the error is a missing-log error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Client fetches log documents from the rbtlog repository's contents API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a log client against the given contents API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the contents API response wrapper; the document itself is
// base64-encoded in the content field.
type envelope struct {
	Content string `json:"content"`
}

// Fetch retrieves and parses the log for one log file
// (e.g. "org.fossify.calendar.json").
func (c *Client) Fetch(ctx context.Context, logFile string) (*Log, error) {
	url := fmt.Sprintf("%s/IzzyOnDroid/rbtlog/contents/logs/%s", c.baseURL, logFile)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build log request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch log %s: %w", logFile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{LogFile: logFile}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch log %s: unexpected status %s", logFile, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read log response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse log envelope: %w", err)
	}

	// The API wraps base64 across lines; strip the line breaks first.
	encoded := strings.NewReplacer("\n", "", "\r", "").Replace(env.Content)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode log content: %w", err)
	}

	return ParseLog(raw)
}
