package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

type scriptedDoer struct {
	responses []*http.Response
	errs      []error
	calls     int
}

func (d *scriptedDoer) Do(_ *http.Request) (*http.Response, error) {
	i := d.calls
	d.calls++
	if i >= len(d.responses) {
		i = len(d.responses) - 1
	}
	if d.errs != nil && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.responses[i], nil
}

func jsonResp(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(doer Doer) *Client {
	c := NewClient(doer, "https://example.test")
	c.SetRetryConfig(RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestGetJSONSuccess(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{jsonResp(200, `{"value":"42"}`)}}
	c := newTestClient(doer)

	var out struct {
		Value string `json:"value"`
	}
	if err := c.GetJSON(context.Background(), "/value", nil, &out); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Value != "42" {
		t.Fatalf("decoded %q", out.Value)
	}
}

func TestGetJSONRetriesRateLimit(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		jsonResp(429, ""),
		jsonResp(429, ""),
		jsonResp(200, `{}`),
	}}
	c := newTestClient(doer)

	var out map[string]interface{}
	if err := c.GetJSON(context.Background(), "/trades", nil, &out); err != nil {
		t.Fatalf("429s should be retried through: %v", err)
	}
	if doer.calls != 3 {
		t.Fatalf("calls: got %d want 3", doer.calls)
	}
}

func TestGetJSONRetriesServerErrorThenPropagates(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{jsonResp(500, "boom")}}
	c := newTestClient(doer)

	err := c.GetJSON(context.Background(), "/trades", nil, nil)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected retries-exhausted, got %v", err)
	}
	// MaxRetries=2 means the original attempt plus two retries.
	if doer.calls != 3 {
		t.Fatalf("calls: got %d want 3", doer.calls)
	}
}

func TestGetJSONDoesNotRetryBadRequest(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{jsonResp(400, "nope")}}
	c := newTestClient(doer)

	err := c.GetJSON(context.Background(), "/trades", nil, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if doer.calls != 1 {
		t.Fatalf("calls: got %d want 1", doer.calls)
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	cfg := RetryConfig{BaseDelay: time.Second, MaxDelay: 30 * time.Second, MaxRetries: 10}
	if got := backoffDelay(cfg, 1); got != time.Second {
		t.Fatalf("first delay: got %v", got)
	}
	if got := backoffDelay(cfg, 3); got != 4*time.Second {
		t.Fatalf("third delay: got %v", got)
	}
	if got := backoffDelay(cfg, 20); got != 30*time.Second {
		t.Fatalf("delay must cap at 30s, got %v", got)
	}
}
