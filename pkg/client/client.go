package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formclient/pkg/engine"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/session"
)

const (
	// MessageCreateUser is the only text shown for a failed login.
	MessageCreateUser = "Failed to create user. Please try again."

	createUserPath = "/create-user"
	getFormPath    = "/get-form"
)

var (
	// ErrCreateUser wraps every failure of CreateUser.
	ErrCreateUser = errors.New("client: create user failed")
	// ErrLoadForm wraps every failure of GetForm.
	ErrLoadForm = errors.New("client: load form failed")
)

// Client talks to the form backend. It implements session.UserCreator and
// engine.SchemaFetcher.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

var (
	_ session.UserCreator  = (*Client)(nil)
	_ engine.SchemaFetcher = (*Client)(nil)
)

// New builds a client for baseURL. Request timeouts are disabled unless
// WithTimeout is given.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("client: base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}

	c := &Client{
		baseURL: trimmed,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// BaseURL returns the normalised backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateUser registers user with the backend. Any 2xx response is success.
func (c *Client) CreateUser(ctx context.Context, user model.User) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCreateUser, err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createUserPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: request: %v", ErrCreateUser, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("create user request failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrCreateUser, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("create user rejected", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: unexpected status %s", ErrCreateUser, resp.Status)
	}

	c.logger.Debug("user created", slog.String("roll_number", user.RollNumber))
	return nil
}

// GetForm fetches the schema assigned to rollNumber. The response must carry
// the schema under "form".
func (c *Client) GetForm(ctx context.Context, rollNumber string) (model.FormSchema, error) {
	endpoint, err := url.Parse(c.baseURL + getFormPath)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: parse url: %v", ErrLoadForm, err)
	}
	query := endpoint.Query()
	query.Set("rollNumber", rollNumber)
	endpoint.RawQuery = query.Encode()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: request: %v", ErrLoadForm, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("get form request failed", slog.Any("error", err))
		return model.FormSchema{}, fmt.Errorf("%w: %w", ErrLoadForm, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("get form rejected", slog.Int("status", resp.StatusCode))
		return model.FormSchema{}, fmt.Errorf("%w: unexpected status %s", ErrLoadForm, resp.Status)
	}

	var payload struct {
		Form *model.FormSchema `json:"form"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: decode: %v", ErrLoadForm, err)
	}
	if payload.Form == nil {
		return model.FormSchema{}, fmt.Errorf("%w: response has no form", ErrLoadForm)
	}

	c.logger.Debug("form fetched",
		slog.String("form_id", payload.Form.FormID),
		slog.Int("sections", len(payload.Form.Sections)),
	)
	return *payload.Form, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}
