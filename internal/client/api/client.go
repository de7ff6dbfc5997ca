package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/hr-portal/pkg/logger"
)

// maxErrorBody bounds how much of an error answer is read for its message.
const maxErrorBody = 64 << 10

// TokenSource supplies the bearer token; an empty token sends none.
type TokenSource interface {
	Token() string
}

type Config struct {
	BaseURL string
	// Timeout of 0 leaves requests bounded only by their context.
	Timeout time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewClient(cfg Config, tokens TokenSource, lg *slog.Logger) *Client {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		logger:  lg,
	}
}

// BaseURL is the server root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// failure is the message of the RequestError returned on any failure.
	failure string
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// do sends req and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return nil, &RequestError{Message: req.failure, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			"method", req.method,
			"path", req.path,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return nil, &RequestError{Message: req.failure, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Message:       req.failure,
			Status:        resp.StatusCode,
			ServerMessage: serverMessage(resp.Body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Message: req.failure, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

// decodeInto runs decode over a successful body, reporting a malformed body
// with the operation's message.
func decodeInto[T any](data []byte, failure string, decode func([]byte) (T, error)) (T, error) {
	v, err := decode(data)
	if err != nil {
		var zero T
		return zero, &RequestError{Message: failure, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return v, nil
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Message
}

// formatTimestamp keeps t's offset so the server sees the caller's calendar
// date, and its fraction so an inclusive end bound reaches the last instant.
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
