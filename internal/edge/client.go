// Package edge invokes Supabase Edge Functions over HTTP.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/lottery-miniapp-api/internal/metrics"
	"github.com/tidwall/gjson"
)

const maxBody = 8 << 20

// Error is returned when the function answered with a non-2xx status.
type Error struct {
	Function string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function %s: status %d: %s", e.Function, e.Status, e.Message)
}

type Invocation struct {
	Headers map[string]string
	Body    any
}

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewClient(baseURL, key string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: timeout},
	}
}

// Invoke POSTs the JSON body to /functions/v1/{name} and returns the raw
// response document.
func (c *Client) Invoke(ctx context.Context, name string, inv Invocation) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, errors.New("edge: functions base url not configured")
	}
	payload, err := json.Marshal(inv.Body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+name, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("apikey", c.key)
	}
	for k, v := range inv.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FunctionDuration.WithLabelValues(name, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()
	metrics.FunctionDuration.WithLabelValues(name, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Function: name, Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invoke %s: response is not JSON", name)
	}
	return json.RawMessage(body), nil
}

// errorMessage digs the human message out of the usual function error shapes:
// {"error":{"message":..}}, {"error":".."} or {"message":".."}.
func errorMessage(body []byte, status int) string {
	if json.Valid(body) {
		for _, path := range []string{"error.message", "error", "message"} {
			if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 {
		return s
	}
	return http.StatusText(status)
}
