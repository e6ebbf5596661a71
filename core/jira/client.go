// Package jira talks to the Jira Server REST API (v2) to manage project role
// membership.
package jira

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
)

// Client issues authenticated requests against a single Jira instance.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// NewClient returns a client for the Jira instance at baseURL that sends token
// as a bearer credential. timeout bounds every request; zero means no limit.
func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the Jira instance URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// membershipRequest is the POST body for the project role actor endpoint.
type membershipRequest struct {
	User []string `json:"user"`
}

func (c *Client) rolesURL(projectKey string) string {
	return fmt.Sprintf("%s/rest/api/2/project/%s/role", c.baseURL, url.PathEscape(projectKey))
}

// ListProjectRoles fetches the role listing of a project.
//
// A 404 yields ErrNotFound, 401/403 yield ErrAuth, and anything else that
// prevents a decoded listing yields ErrTransport.
func (c *Client) ListProjectRoles(ctx context.Context, projectKey string) (RoleDirectory, error) {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return nil, fmt.Errorf("project key cannot be empty")
	}
	if c.token == "" {
		return nil, ErrMissingCredential
	}

	slog.Debug("Fetching Jira project roles", "project", projectKey)
	status, body, err := c.do(ctx, http.MethodGet, c.rolesURL(projectKey), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, classifyStatus("list project roles", status, body, ErrTransport)
	}

	var roles RoleDirectory
	if err := json.Unmarshal(body, &roles); err != nil {
		return nil, fmt.Errorf("%w: failed to parse jira roles response: %w", ErrTransport, err)
	}
	slog.Debug("Jira project roles fetched", "project", projectKey, "count", len(roles))
	return roles, nil
}

// ResolveRoleID returns the identifier of the role named roleName in the
// project. An empty listing yields ErrNoRoles; a listing without the role
// yields a *RoleNotFoundError.
func (c *Client) ResolveRoleID(ctx context.Context, projectKey, roleName string) (string, error) {
	if roleName == "" {
		roleName = DefaultRoleName
	}
	roles, err := c.ListProjectRoles(ctx, projectKey)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", ErrNoRoles
	}

	role, ok := roles.Find(roleName)
	if !ok {
		return "", &RoleNotFoundError{
			Project:   projectKey,
			Role:      roleName,
			Available: roles.Names(),
		}
	}
	id, err := RoleID(role.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	slog.Debug("Jira role resolved", "project", projectKey, "role", roleName, "id", id)
	return id, nil
}

// AddUserToRole adds username as an actor of the project role roleID. It makes
// exactly one attempt. Any 2xx status is success; 401/403 yield ErrAuth, 404
// yields ErrNotFound and other statuses yield ErrWriteFailed.
func (c *Client) AddUserToRole(ctx context.Context, projectKey, roleID, username string) error {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return fmt.Errorf("project key cannot be empty")
	}
	if roleID == "" {
		return fmt.Errorf("role id cannot be empty")
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if c.token == "" {
		return ErrMissingCredential
	}

	payload, err := json.Marshal(membershipRequest{User: []string{username}})
	if err != nil {
		return fmt.Errorf("failed to marshal jira request: %w", err)
	}

	target := c.rolesURL(projectKey) + "/" + url.PathEscape(roleID)
	slog.Debug("Adding user to Jira project role", "project", projectKey, "role", roleID, "user", username)
	status, body, err := c.do(ctx, http.MethodPost, target, payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return classifyStatus("add user to role", status, body, ErrWriteFailed)
	}
	return nil
}

// do sends one request and returns the status code and full response body.
// Failures to send or read are wrapped in ErrTransport.
func (c *Client) do(ctx context.Context, method, target string, payload []byte) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to create jira request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, target, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read jira response: %w", ErrTransport, err)
	}
	slog.Debug("Jira response", "method", method, "url", target, "status", resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

// IsTimeout reports whether err was caused by a request timeout.
func IsTimeout(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
