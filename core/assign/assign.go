// Package assign runs the interactive flow that adds a user to a project role:
// credential check, prompts, role lookup, membership update and reporting.
package assign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/opensdd/jira-contributors/core/config"
	"github.com/opensdd/jira-contributors/core/jira"
	"github.com/opensdd/jira-contributors/core/prompt"
)

// RoleService is the subset of the Jira client used by the flow.
type RoleService interface {
	ResolveRoleID(ctx context.Context, projectKey, roleName string) (string, error)
	AddUserToRole(ctx context.Context, projectKey, roleID, username string) error
}

// Runner wires configuration, prompts and the Jira client together.
// When Client is nil one is built from Config.
type Runner struct {
	Config *config.Config
	Client RoleService
	In     io.Reader
	Out    io.Writer
}

// Run executes the flow once. All progress and failure text is written to
// Out; the returned error is the terminal failure, or nil on success.
func (r *Runner) Run(ctx context.Context) error {
	if r.Config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	log := slog.With("op", "assign.Run")
	cfg := r.Config
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	fmt.Fprintln(out, "--- Jira User Role Assignment Script ---")
	fmt.Fprintf(out, "Using Jira instance: %s\n", cfg.BaseURL)

	if cfg.Token == "" {
		fmt.Fprintln(out, "Error: JIRA_API_TOKEN environment variable is not set.")
		fmt.Fprintln(out, "Please export your Personal Access Token before running the script.")
		return jira.ErrMissingCredential
	}

	in := r.In
	if in == nil {
		in = strings.NewReader("")
	}
	answers, err := prompt.New(in, out).ReadAssignment()
	if err != nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintln(out, strings.Repeat("-", 35))

	client := r.Client
	if client == nil {
		client = jira.NewClient(cfg.BaseURL, cfg.Token, cfg.Timeout)
	}

	role := cfg.RoleName
	fmt.Fprintf(out, "Fetching roles for project '%s' to find '%s'...\n", answers.ProjectKey, role)
	roleID, err := client.ResolveRoleID(ctx, answers.ProjectKey, role)
	if err != nil {
		log.Debug("Role lookup failed", "project", answers.ProjectKey, "error", err)
		reportLookupError(out, answers.ProjectKey, role, err)
		return err
	}
	fmt.Fprintf(out, "Found '%s' role with ID: %s\n", role, roleID)

	fmt.Fprintf(out, "\nAdding user '%s' to '%s' role (ID: %s) in project '%s'...\n",
		answers.Username, role, roleID, answers.ProjectKey)
	if err := client.AddUserToRole(ctx, answers.ProjectKey, roleID, answers.Username); err != nil {
		log.Debug("Membership update failed", "project", answers.ProjectKey, "role", roleID, "error", err)
		reportWriteError(out, err)
		return err
	}

	fmt.Fprintf(out, "Successfully added user '%s' to the '%s' role.\n", answers.Username, role)
	return nil
}

func reportLookupError(out io.Writer, projectKey, role string, err error) {
	var (
		rnf *jira.RoleNotFoundError
		se  *jira.StatusError
	)
	switch {
	case errors.Is(err, jira.ErrNoRoles):
		fmt.Fprintln(out, "No roles found for this project.")
	case errors.As(err, &rnf):
		fmt.Fprintf(out, "Error: Could not find a role named '%s' in project '%s'.\n", role, projectKey)
		fmt.Fprintf(out, "Available roles: %s\n", strings.Join(rnf.Available, ", "))
	case errors.As(err, &se):
		fmt.Fprintf(out, "HTTP error occurred: %d %s\n", se.StatusCode, http.StatusText(se.StatusCode))
		switch {
		case errors.Is(err, jira.ErrNotFound):
			fmt.Fprintf(out, "Error: Project with key '%s' not found.\n", projectKey)
		case errors.Is(err, jira.ErrAuth):
			fmt.Fprintln(out, "Error: Authentication or Permission issue. Please check your Personal Access Token and your account permissions on Jira.")
		}
		printBody(out, se.Body)
	default:
		fmt.Fprintf(out, "An error occurred: %v\n", err)
	}
}

func reportWriteError(out io.Writer, err error) {
	var se *jira.StatusError
	if !errors.As(err, &se) {
		fmt.Fprintf(out, "An error occurred: %v\n", err)
		return
	}
	fmt.Fprintf(out, "HTTP error occurred: %d %s\n", se.StatusCode, http.StatusText(se.StatusCode))
	fmt.Fprintf(out, "Error: Failed to add user. Status Code: %d\n", se.StatusCode)
	if errors.Is(err, jira.ErrAuth) {
		fmt.Fprintln(out, "Error: Authentication or Permission issue. Please check your Personal Access Token and your account permissions on Jira.")
	} else {
		fmt.Fprintln(out, "Please check the user, project key, and role ID.")
	}
	printBody(out, se.Body)
}

func printBody(out io.Writer, body string) {
	if body != "" {
		fmt.Fprintf(out, "Jira response: %s\n", body)
	}
}
