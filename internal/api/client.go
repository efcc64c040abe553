// Package api wraps the HealthConnect REST API: one HTTP client, one error
// taxonomy, per-endpoint success markers and typed endpoint methods.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBody = 8 << 20

type Client struct {
	baseURL string
	hc      *http.Client
	token   func() string
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.hc.Timeout = d } }

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithToken sets the bearer token source, consulted on every request.
func WithToken(fn func() string) Option { return func(c *Client) { c.token = fn } }

// New returns a client rooted at baseURL (e.g. http://localhost:4000/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 15 * time.Second},
		token:   func() string { return "" },
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        io.Reader
}

// JSON sends body (if non-nil) as JSON and checks expect against the reply.
func (c *Client) JSON(ctx context.Context, method, path string, body any, expect Marker) (Envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return Envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, expect, false)
}

// Multipart posts a form. The content type comes from the multipart writer so
// the boundary is always right. Non-JSON success bodies are tolerated.
func (c *Client) Multipart(ctx context.Context, method, path string, fields map[string]string, files []File, expect Marker) (Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return Envelope{}, fmt.Errorf("form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		pw, err := mw.CreatePart(h)
		if err != nil {
			return Envelope{}, fmt.Errorf("form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(pw, f.Data); err != nil {
			return Envelope{}, fmt.Errorf("form file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return Envelope{}, fmt.Errorf("close form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return Envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, expect, true)
}

func (c *Client) do(req *http.Request, expect Marker, lenient bool) (Envelope, error) {
	rid := uuid.NewString()
	req.Header.Set("X-Request-ID", rid)
	if tok := strings.TrimSpace(c.token()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return Envelope{}, ctxErr
		}
		c.log.Warn().Err(err).
			Str("request_id", rid).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("request failed")
		return Envelope{}, &Error{Kind: KindNetwork, Message: networkMessage, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Envelope{}, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: networkMessage, Err: err}
	}

	c.log.Debug().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := &Error{Kind: KindStatus, Status: resp.StatusCode, Message: statusMessage(resp.StatusCode, b)}
		c.logFailure(req, rid, e)
		return Envelope{}, e
	}

	env, err := c.decodeSuccess(resp, b, lenient)
	if err != nil {
		e := &Error{Kind: KindDecode, Status: resp.StatusCode, Message: decodeMessage, Err: err}
		c.logFailure(req, rid, e)
		return Envelope{}, e
	}
	if expect != nil && !expect(env) {
		msg := rejectedMessage
		if env.HasMessage && env.Message != "" {
			msg = env.Message
		}
		e := &Error{Kind: KindRejected, Status: resp.StatusCode, Message: msg}
		c.logFailure(req, rid, e)
		return env, e
	}
	return env, nil
}

func (c *Client) decodeSuccess(resp *http.Response, b []byte, lenient bool) (Envelope, error) {
	if lenient && !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		text := strings.TrimSpace(string(b))
		if text == "" {
			return parseEnvelope([]byte(`{"status":true}`))
		}
		wrapped, _ := json.Marshal(map[string]string{"message": text})
		return parseEnvelope(wrapped)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return Envelope{}, errors.New("empty body")
	}
	return parseEnvelope(b)
}

func (c *Client) logFailure(req *http.Request, rid string, e *Error) {
	c.log.Warn().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", e.Status).
		Str("kind", e.Kind.String()).
		Str("message", e.Message).
		Msg("request failed")
}

// statusMessage prefers the body's message field.
func statusMessage(status int, b []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if t := http.StatusText(status); t != "" {
		return fmt.Sprintf("%s (%d %s)", genericMessage, status, t)
	}
	return genericMessage
}
