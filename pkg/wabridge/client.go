// Package wabridge provides a client for a WhatsApp Web bridge service. The
// bridge owns the browser session; this client only drives it over a small
// HTTP API. One bridge serves exactly one session, so callers must not send
// concurrently.
package wabridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNotReady is returned when the bridge session has no authenticated
// WhatsApp Web connection behind it.
var ErrNotReady = eris.New("wabridge: session not ready")

// State describes the bridge session after a connect attempt.
type State string

const (
	// StateReady means the session is authenticated and can send.
	StateReady State = "ready"
	// StateQRPending means the bridge is showing a QR code that must be
	// scanned from the phone before sending can start.
	StateQRPending State = "qr_pending"
	// StateDisconnected means the bridge has no usable session.
	StateDisconnected State = "disconnected"
)

// Channel is the message-channel contract the send loop depends on.
type Channel interface {
	// Connect establishes or resumes the WhatsApp Web session.
	Connect(ctx context.Context) (State, error)
	// OpenConversation navigates the session to the chat for a phone number
	// already formatted for the channel (leading +).
	OpenConversation(ctx context.Context, phone string) error
	// SendText types and sends a message in the open conversation. The
	// boolean is the bridge's delivery heuristic, not a receipt.
	SendText(ctx context.Context, message string) (bool, error)
	// Ready reports whether the session can send right now.
	Ready(ctx context.Context) (bool, error)
}

// Option configures the bridge client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimiter overrides the request limiter (for testing).
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithConnectTimeout bounds how long Connect waits for the session,
// including time spent on QR scanning.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.connectTimeout = d
	}
}

type httpClient struct {
	baseURL        string
	http           *http.Client
	limiter        *rate.Limiter
	connectTimeout time.Duration
}

// NewClient creates a bridge client for the given base URL, e.g.
// "http://localhost:3333".
func NewClient(baseURL string, opts ...Option) Channel {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		// One request per second is plenty; the send loop adds its own
		// multi-second delay between contacts.
		limiter:        rate.NewLimiter(1, 2),
		connectTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type statusResponse struct {
	State State `json:"state"`
}

type sendResponse struct {
	Sent   bool   `json:"sent"`
	Detail string `json:"detail"`
}

func (c *httpClient) Connect(ctx context.Context) (State, error) {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodPost, "/session/connect", nil)
	if err != nil {
		return StateDisconnected, eris.Wrap(err, "wabridge: connect")
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return StateDisconnected, eris.Wrap(err, "wabridge: unmarshal connect response")
	}
	if status.State == "" {
		status.State = StateDisconnected
	}
	return status.State, nil
}

func (c *httpClient) OpenConversation(ctx context.Context, phone string) error {
	payload := map[string]string{"phone": phone}
	if _, err := c.do(ctx, http.MethodPost, "/chats/open", payload); err != nil {
		return eris.Wrapf(err, "wabridge: open conversation %s", phone)
	}
	return nil
}

func (c *httpClient) SendText(ctx context.Context, message string) (bool, error) {
	payload := map[string]string{"text": message}
	body, err := c.do(ctx, http.MethodPost, "/messages", payload)
	if err != nil {
		return false, eris.Wrap(err, "wabridge: send text")
	}

	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, eris.Wrap(err, "wabridge: unmarshal send response")
	}
	if !resp.Sent && resp.Detail != "" {
		return false, eris.Errorf("wabridge: send failed: %s", resp.Detail)
	}
	return resp.Sent, nil
}

func (c *httpClient) Ready(ctx context.Context) (bool, error) {
	body, err := c.do(ctx, http.MethodGet, "/session/status", nil)
	if err != nil {
		return false, eris.Wrap(err, "wabridge: session status")
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return false, eris.Wrap(err, "wabridge: unmarshal status response")
	}
	return status.State == StateReady, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrap(err, "wabridge: marshal request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "wabridge: create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "wabridge: read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusConflict:
		return nil, ErrNotReady
	default:
		return nil, eris.Errorf("wabridge: unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
