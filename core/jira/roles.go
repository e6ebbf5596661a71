package jira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultRoleName is the project role new contributors are added to.
const DefaultRoleName = "Contributors"

// Role is one entry of a project's role listing: the role name and the REST
// URL Jira returns for it.
type Role struct {
	Name string
	URL  string
}

// RoleDirectory is the role listing of a project in the order Jira returned it.
type RoleDirectory []Role

// Names returns the role names in directory order.
func (d RoleDirectory) Names() []string {
	names := make([]string, 0, len(d))
	for _, r := range d {
		names = append(names, r.Name)
	}
	return names
}

// Find returns the first role whose name equals name exactly.
func (d RoleDirectory) Find(name string) (Role, bool) {
	for _, r := range d {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// UnmarshalJSON decodes the `{"<role name>": "<role url>"}` object returned by
// the project role endpoint, keeping document order.
func (d *RoleDirectory) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		// null body, treated like an empty listing
		*d = RoleDirectory{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object of roles, got %v", tok)
	}

	roles := RoleDirectory{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected role key %v", keyTok)
		}
		var url string
		if err := dec.Decode(&url); err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
		roles = append(roles, Role{Name: name, URL: url})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = roles
	return nil
}

// RoleID extracts the role identifier from a role URL, i.e. everything after
// the final '/'. A trailing slash is ignored.
func RoleID(roleURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(roleURL), "/")
	idx := strings.LastIndex(trimmed, "/")
	id := trimmed[idx+1:]
	if id == "" {
		return "", fmt.Errorf("role url %q has no identifier", roleURL)
	}
	return id, nil
}
