package cmd

import (
	"io"

	"github.com/opensdd/jira-contributors/core/assign"
	"github.com/opensdd/jira-contributors/core/config"
	"github.com/opensdd/jira-contributors/core/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command that prompts for a username and project key
// and adds the user to the project's contributors role. Diagnostic logs go to
// stderr; everything meant for the user goes to stdout.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cobra.Command{
		Use:   "jira-contributors",
		Short: "Add a user to the Contributors role of a Jira project.",
		Long: `Prompts for a username and a project key, looks up the project's
Contributors role and adds the user to it.

Environment:
  JIRA_API_TOKEN   personal access token (required)
  JIRA_URL         Jira base URL (default https://issues.apache.org/jira)
  JIRA_TIMEOUT     per-request timeout (default 30s)
  JIRA_ROLE_NAME   role to join (default Contributors)
  JIRA_LOG_LEVEL   debug, info, warn or error (default warn)
  JIRA_LOG_FORMAT  text or json (default text)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				cmd.PrintErrln("Error:", err)
				return err
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			r := &assign.Runner{
				Config: cfg,
				In:     cmd.InOrStdin(),
				Out:    cmd.OutOrStdout(),
			}
			return r.Run(cmd.Context())
		},
	}
	c.SetIn(stdin)
	c.SetOut(stdout)
	c.SetErr(stderr)
	return c
}
