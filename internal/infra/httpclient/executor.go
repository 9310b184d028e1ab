package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

const defaultMaxBodyBytes = 256 * 1024

// ResponseData is a bounded copy of a response plus its round-trip time.
type ResponseData struct {
	Status    int
	Headers   http.Header
	Body      []byte
	Truncated bool
	Duration  time.Duration
}

// Executor runs requests with a per-request timeout and a body cap.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

type ExecutorOption func(*Executor)

func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithMaxBodyBytes caps how much of each body is kept; the rest is dropped
// and the response is marked truncated.
func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:       New(cfg),
		timeout:      cfg.Timeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do executes req. Duration is set even when the request fails.
func (e *Executor) Do(ctx context.Context, req *http.Request) (ResponseData, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.Do(req.WithContext(ctx))
	if err != nil {
		return ResponseData{Duration: time.Since(start)}, err
	}
	defer resp.Body.Close()

	body, truncated, err := readBounded(resp.Body, e.maxBodyBytes)
	out := ResponseData{
		Status:    resp.StatusCode,
		Headers:   resp.Header.Clone(),
		Body:      body,
		Truncated: truncated,
		Duration:  time.Since(start),
	}
	return out, err
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > maxBytes {
		return b[:maxBytes], true, nil
	}
	return b, false, nil
}
