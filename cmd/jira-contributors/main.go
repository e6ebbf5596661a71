package main

import (
	"context"
	"os"

	"github.com/opensdd/jira-contributors/cmd/jira-contributors/cmd"
)

func main() {
	command := cmd.NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
