// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sethvargo/go-envconfig"
)

var (
	integEnvOnce sync.Once
	integEnvVars map[string]string
)

// integEnvFile is read once; lines are KEY=VALUE, '#' starts a comment.
func integEnvFile() map[string]string {
	integEnvOnce.Do(func() {
		integEnvVars = map[string]string{}
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		f, err := os.Open(filepath.Join(home, ".config", "jira-contributors", ".env.integ-test"))
		if err != nil {
			return
		}
		defer func() { _ = f.Close() }()
		integEnvVars = parseEnvLines(bufio.NewScanner(f))
	})
	return integEnvVars
}

func parseEnvLines(scanner *bufio.Scanner) map[string]string {
	vars := map[string]string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			vars[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}
	return vars
}

// IntegEnv returns the value of key from the environment, falling back to
// ~/.config/jira-contributors/.env.integ-test if the env var is not set.
func IntegEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return integEnvFile()[key]
}

type integLookuper struct{}

func (integLookuper) Lookup(key string) (string, bool) {
	v := IntegEnv(key)
	return v, v != ""
}

// Lookuper resolves config keys the same way IntegEnv does, so integration
// tests can load a full config.Config.
func Lookuper() envconfig.Lookuper { return integLookuper{} }
