// Package cardapi submits card forms, with their attachments, to the
// card-creation backend as one multipart request.
package cardapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/cardform/internal/model"
)

const (
	// AttachmentField is the multipart field shared by every file part.
	AttachmentField = "fileAttachment"

	// RequestIDHeader carries the per-submission id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// SubmitError is a non-2xx answer from the backend. Message is the server's
// error.message when the body had that shape, empty otherwise.
type SubmitError struct {
	Status    int
	Message   string
	Body      string
	RequestID string
}

func (e *SubmitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("create card: http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("create card: http %d", e.Status)
}

// ServerMessage returns the backend-supplied message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var se *SubmitError
	if errors.As(err, &se) && strings.TrimSpace(se.Message) != "" {
		return se.Message, true
	}
	return "", false
}

// Client posts card forms to a fixed endpoint.
type Client struct {
	endpoint     string
	http         *http.Client
	newRequestID func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRequestIDs replaces the request id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// New builds a client for endpoint. A zero timeout means no timeout.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint:     strings.TrimSpace(endpoint),
		http:         &http.Client{Timeout: timeout},
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}


// CreateCard sends every form field, then every attachment under AttachmentField.
func (c *Client) CreateCard(ctx context.Context, form model.CardForm, files []model.Attachment) error {
	_, err := c.CreateCardWithID(ctx, form, files)
	return err
}

// CreateCardWithID is CreateCard that also reports the request id it sent.
func (c *Client) CreateCardWithID(ctx context.Context, form model.CardForm, files []model.Attachment) (string, error) {
	requestID := c.newRequestID()

	// Fail before any bytes go out when an attachment is unreadable.
	for _, f := range files {
		if _, err := os.Stat(f.Path); err != nil {
			return requestID, fmt.Errorf("attachment %s: %w", f.Name, err)
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeBody(mw, form, files))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return requestID, fmt.Errorf("create card: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return requestID, fmt.Errorf("create card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return requestID, nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return requestID, &SubmitError{
		Status:    resp.StatusCode,
		Message:   extractMessage(b),
		Body:      string(b),
		RequestID: requestID,
	}
}

func writeBody(mw *multipart.Writer, form model.CardForm, files []model.Attachment) error {
	for _, fv := range form.Fields() {
		if err := mw.WriteField(fv.Name, fv.Value); err != nil {
			return fmt.Errorf("write field %s: %w", fv.Name, err)
		}
	}
	for _, f := range files {
		if err := writeFile(mw, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, f model.Attachment) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open attachment %s: %w", f.Name, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile(AttachmentField, f.Name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy attachment %s: %w", f.Name, err)
	}
	return nil
}

// extractMessage reads error.message from a JSON error body. Any other shape
// yields "".
func extractMessage(body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return ""
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err != nil {
		return ""
	}
	return strings.TrimSpace(nested.Message)
}
