package jira

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for Jira project role operations. StatusError and
// RoleNotFoundError unwrap to these so callers can use errors.Is.
var (
	ErrMissingCredential = errors.New("jira: JIRA_API_TOKEN environment variable is not set")
	ErrAuth              = errors.New("jira: authentication or permission failure")
	ErrNotFound          = errors.New("jira: resource not found")
	ErrNoRoles           = errors.New("jira: no roles found for project")
	ErrRoleMissing       = errors.New("jira: role not found in project")
	ErrTransport         = errors.New("jira: request failed")
	ErrWriteFailed       = errors.New("jira: write rejected")
)

// StatusError is returned when Jira answers with an unexpected HTTP status.
// Body holds the raw response text, if any.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	kind       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: jira API returned status %d", e.Op, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return e.kind }

// RoleNotFoundError reports that no role with the requested name exists.
// Available lists every role name the project returned, in response order.
type RoleNotFoundError struct {
	Project   string
	Role      string
	Available []string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("could not find a role named '%s' in project '%s' (available: %s)",
		e.Role, e.Project, strings.Join(e.Available, ", "))
}

func (e *RoleNotFoundError) Unwrap() error { return ErrRoleMissing }

// classifyStatus maps a non-2xx status to its error kind. fallback is used for
// statuses that are neither auth nor not-found failures.
func classifyStatus(op string, status int, body []byte, fallback error) *StatusError {
	kind := fallback
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrAuth
	case http.StatusNotFound:
		kind = ErrNotFound
	}
	return &StatusError{
		Op:         op,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
		kind:       kind,
	}
}
