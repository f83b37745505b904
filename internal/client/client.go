package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/notesload/internal/model"
)

const (
	// UnknownID is reported when a created note comes back without an id.
	UnknownID = "unknown"

	// TokenCookie is the cookie the notes API reads its JWT from.
	TokenCookie = "token"

	// failure bodies are only kept for the report
	maxErrorBody = 1 << 20
)

// Doer is the part of *http.Client we use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client creates notes, one POST per note.
type Client struct {
	url    string
	http   Doer
	logger *zap.Logger
	newID  func() string
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL is the endpoint notes are posted to.
func (c *Client) URL() string { return c.url }

// Outcome is the result of one create request.
// Err is set for transport failures and unreadable success responses;
// otherwise Status and Body describe what the server said.
type Outcome struct {
	ID     string
	Status int
	Body   string
	Err    error
}

// OK reports whether the note was created.
func (o Outcome) OK() bool {
	return o.Err == nil && isCreated(o.Status)
}

func isCreated(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

// Create posts one note. It never retries; every problem is returned in
// the Outcome so the caller can move on to the next note.
func (c *Client) Create(ctx context.Context, note model.Note, token string) Outcome {
	body, err := json.Marshal(note)
	if err != nil {
		return Outcome{Err: fmt.Errorf("json marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Outcome{Err: fmt.Errorf("new request: %w", err)}
	}
	reqID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	// set verbatim; AddCookie would drop characters it considers invalid
	req.Header.Set("Cookie", TokenCookie+"="+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("create note failed",
			zap.String("url", c.url),
			zap.String("request_id", reqID),
			zap.Error(err))
		return Outcome{Err: err}
	}
	defer resp.Body.Close()

	var src io.Reader = resp.Body
	if !isCreated(resp.StatusCode) {
		src = io.LimitReader(resp.Body, maxErrorBody)
	}
	raw, err := io.ReadAll(src)
	c.logger.Debug("create note",
		zap.String("method", req.Method),
		zap.String("url", c.url),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	if err != nil {
		return Outcome{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	out := Outcome{Status: resp.StatusCode, Body: string(raw)}
	if !isCreated(resp.StatusCode) {
		return out
	}
	id, err := extractID(raw)
	if err != nil {
		out.Err = err
		return out
	}
	out.ID = id
	return out
}

func extractID(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if m == nil {
		return "", fmt.Errorf("decode response: expected a JSON object")
	}
	switch id := m["id"].(type) {
	case nil:
		return UnknownID, nil
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return fmt.Sprint(id), nil
	}
}
