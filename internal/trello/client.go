// Package trello reads the board, list and label reference data the card form
// offers for selection.
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idilsaglam/cardform/internal/config"
	"github.com/idilsaglam/cardform/internal/model"
)

// maxErrorBody bounds how much of a failed response is kept on APIError.
const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the Trello API.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("trello %s: http %d", e.Op, e.Status)
	}
	return fmt.Sprintf("trello %s: http %d: %s", e.Op, e.Status, body)
}

// Client is a read-only Trello REST client authenticated by key and token query
// parameters.
type Client struct {
	baseURL string
	key     string
	token   string
	http    *http.Client
}

// New builds a client from the injected Trello settings.
func New(cfg config.TrelloConfig, timeout time.Duration) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient builds a client around a caller-provided HTTP client.
func NewWithHTTPClient(cfg config.TrelloConfig, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = config.DefaultTrelloBaseURL
	}
	return &Client{
		baseURL: base,
		key:     cfg.APIKey,
		token:   cfg.APIToken,
		http:    hc,
	}
}

// Boards returns the boards of the authenticated member.
func (c *Client) Boards(ctx context.Context) ([]model.Board, error) {
	var out []model.Board
	if err := c.get(ctx, "boards", "/1/members/me/boards", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lists returns the lists of one board in board order.
func (c *Client) Lists(ctx context.Context, boardID string) ([]model.List, error) {
	var out []model.List
	if err := c.get(ctx, "lists", "/1/boards/"+url.PathEscape(boardID)+"/lists", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Labels returns the labels defined on one board.
func (c *Client) Labels(ctx context.Context, boardID string) ([]model.Label, error) {
	var out []model.Label
	if err := c.get(ctx, "labels", "/1/boards/"+url.PathEscape(boardID)+"/labels", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("token", c.token)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("trello %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trello %s: %w", op, redactErr(err, c.key, c.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Op: op, Status: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("trello %s: decode response: %w", op, err)
	}
	return nil
}

// redactErr keeps credentials out of transport errors, which embed the request URL.
func redactErr(err error, secrets ...string) error {
	msg := err.Error()
	redacted := msg
	for _, s := range secrets {
		if s != "" {
			redacted = strings.ReplaceAll(redacted, url.QueryEscape(s), "REDACTED")
			redacted = strings.ReplaceAll(redacted, s, "REDACTED")
		}
	}
	if redacted == msg {
		return err
	}
	return &redactedError{msg: redacted, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
