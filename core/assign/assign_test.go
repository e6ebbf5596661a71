package assign

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/opensdd/jira-contributors/core/config"
	"github.com/opensdd/jira-contributors/core/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL, token string) *config.Config {
	cfg := &config.Config{
		Token:    token,
		BaseURL:  baseURL,
		Timeout:  time.Second,
		RoleName: jira.DefaultRoleName,
	}
	return cfg
}

// trackerServer fakes the two Jira endpoints for project HDDS.
func trackerServer(t *testing.T, postStatus int, postBody string) (*httptest.Server, *[]string) {
	t.Helper()
	var posted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/api/2/project/HDDS/role":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Contributors":"http://jira/rest/api/2/project/HDDS/role/777","Developers":"http://jira/rest/api/2/project/HDDS/role/1"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/api/2/project/HDDS/role/777":
			var body struct {
				User []string `json:"user"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			posted = append(posted, body.User...)
			w.WriteHeader(postStatus)
			_, _ = w.Write([]byte(postBody))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorMessages":["No project could be found with key 'X'."]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &posted
}

func TestRun_EndToEnd_Success(t *testing.T) {
	server, posted := trackerServer(t, http.StatusNoContent, "")

	var out bytes.Buffer
	r := &Runner{
		Config: testConfig(server.URL, "secret"),
		In:     strings.NewReader("alice\nHDDS\n"),
		Out:    &out,
	}
	err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, *posted)
	s := out.String()
	assert.Contains(t, s, "Using Jira instance: "+server.URL)
	assert.Contains(t, s, "Found 'Contributors' role with ID: 777")
	assert.Contains(t, s, "Adding user 'alice' to 'Contributors' role (ID: 777) in project 'HDDS'...")
	assert.Contains(t, s, "Successfully added user 'alice' to the 'Contributors' role.")
}

func TestRun_EndToEnd_AlreadyMember(t *testing.T) {
	server, posted := trackerServer(t, http.StatusBadRequest, `{"errorMessages":["alice already a member"]}`)

	var out bytes.Buffer
	r := &Runner{
		Config: testConfig(server.URL, "secret"),
		In:     strings.NewReader("alice\nHDDS\n"),
		Out:    &out,
	}
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, jira.ErrWriteFailed)
	assert.Len(t, *posted, 1)

	s := out.String()
	assert.Contains(t, s, "Error: Failed to add user. Status Code: 400")
	assert.Contains(t, s, `Jira response: {"errorMessages":["alice already a member"]}`)
	assert.NotContains(t, s, "Successfully added")
}

func TestRun_UnknownProject(t *testing.T) {
	server, posted := trackerServer(t, http.StatusNoContent, "")

	var out bytes.Buffer
	r := &Runner{
		Config: testConfig(server.URL, "secret"),
		In:     strings.NewReader("alice\nNOPE\n"),
		Out:    &out,
	}
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, jira.ErrNotFound)
	assert.Empty(t, *posted)
	assert.Contains(t, out.String(), "Error: Project with key 'NOPE' not found.")
	assert.Contains(t, out.String(), "Jira response: ")
}

func TestRun_MissingCredential_NoNetwork(t *testing.T) {
	t.Parallel()
	mt := httpmock.NewMockTransport()
	mt.RegisterNoResponder(httpmock.NewStringResponder(http.StatusOK, `{}`))
	client := jira.NewClient("https://jira.example.com", "", time.Second,
		jira.WithHTTPClient(&http.Client{Transport: mt}))

	var out bytes.Buffer
	r := &Runner{
		Config: testConfig("https://jira.example.com", ""),
		Client: client,
		In:     strings.NewReader("alice\nHDDS\n"),
		Out:    &out,
	}
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, jira.ErrMissingCredential)
	assert.Equal(t, 0, mt.GetTotalCallCount())
	assert.Contains(t, out.String(), "Error: JIRA_API_TOKEN environment variable is not set.")
	// no prompt is shown
	assert.NotContains(t, out.String(), "Enter the username")
}

func TestRun_AuthFailure(t *testing.T) {
	t.Parallel()
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodGet, "https://jira.example.com/rest/api/2/project/HDDS/role",
		httpmock.NewStringResponder(http.StatusUnauthorized, ""))
	client := jira.NewClient("https://jira.example.com", "expired", time.Second,
		jira.WithHTTPClient(&http.Client{Transport: mt}))

	var out bytes.Buffer
	r := &Runner{
		Config: testConfig("https://jira.example.com", "expired"),
		Client: client,
		In:     strings.NewReader("alice\nHDDS\n"),
		Out:    &out,
	}
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, jira.ErrAuth)
	assert.Contains(t, out.String(), "HTTP error occurred: 401 Unauthorized")
	assert.Contains(t, out.String(), "Authentication or Permission issue")
	assert.NotContains(t, out.String(), "Jira response:")
}

// fakeRoles records calls made by the runner.
type fakeRoles struct {
	resolveErr error
	roleID     string
	addErr     error
	added      []string
}

func (f *fakeRoles) ResolveRoleID(_ context.Context, _, _ string) (string, error) {
	return f.roleID, f.resolveErr
}

func (f *fakeRoles) AddUserToRole(_ context.Context, projectKey, roleID, username string) error {
	f.added = append(f.added, projectKey+"/"+roleID+"/"+username)
	return f.addErr
}

func TestRun_RoleNotFound_ListsAvailable(t *testing.T) {
	t.Parallel()
	f := &fakeRoles{resolveErr: &jira.RoleNotFoundError{
		Project:   "HDDS",
		Role:      "Contributors",
		Available: []string{"Developers", "Users"},
	}}

	var out bytes.Buffer
	r := &Runner{Config: testConfig("https://jira.example.com", "t"), Client: f, In: strings.NewReader("alice\nHDDS\n"), Out: &out}
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, jira.ErrRoleMissing)
	assert.Empty(t, f.added)
	assert.Contains(t, out.String(), "Error: Could not find a role named 'Contributors' in project 'HDDS'.")
	assert.Contains(t, out.String(), "Available roles: Developers, Users")
}

func TestRun_NoRoles(t *testing.T) {
	t.Parallel()
	f := &fakeRoles{resolveErr: jira.ErrNoRoles}

	var out bytes.Buffer
	r := &Runner{Config: testConfig("https://jira.example.com", "t"), Client: f, In: strings.NewReader("alice\nHDDS\n"), Out: &out}
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, jira.ErrNoRoles)
	assert.Contains(t, out.String(), "No roles found for this project.")
}

func TestRun_EmptyUsername(t *testing.T) {
	t.Parallel()
	f := &fakeRoles{roleID: "1"}

	var out bytes.Buffer
	r := &Runner{Config: testConfig("https://jira.example.com", "t"), Client: f, In: strings.NewReader("\n"), Out: &out}
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.added)
	assert.Contains(t, out.String(), "Error: username: input cannot be empty")
}

func TestRun_CustomRoleName(t *testing.T) {
	t.Parallel()
	f := &fakeRoles{roleID: "42"}
	cfg := testConfig("https://jira.example.com", "t")
	cfg.RoleName = "Committers"

	var out bytes.Buffer
	r := &Runner{Config: cfg, Client: f, In: strings.NewReader("bob\nOZONE\n"), Out: &out}
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"OZONE/42/bob"}, f.added)
	assert.Contains(t, out.String(), "Successfully added user 'bob' to the 'Committers' role.")
}

func TestRun_NilConfig(t *testing.T) {
	t.Parallel()
	r := &Runner{}
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}
