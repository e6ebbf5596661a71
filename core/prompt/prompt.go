package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyInput is returned when a required answer is blank.
var ErrEmptyInput = errors.New("input cannot be empty")

const (
	UsernameLabel   = "Enter the username to add: "
	ProjectKeyLabel = "Enter the project key (e.g., HDDS): "
)

// Assignment carries the answers collected at the prompts.
type Assignment struct {
	Username   string
	ProjectKey string
}

// Prompter reads line-oriented answers from an input stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask writes label and returns the next input line with surrounding
// whitespace removed. A final line without a newline is accepted.
func (p *Prompter) Ask(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && line != "":
		return strings.TrimSpace(line), nil
	case errors.Is(err, io.EOF):
		return "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(label), io.ErrUnexpectedEOF)
	default:
		return "", fmt.Errorf("failed to read input: %w", err)
	}
}

// ReadAssignment asks for the username, then the project key. Both are required.
func (p *Prompter) ReadAssignment() (Assignment, error) {
	username, err := p.Ask(UsernameLabel)
	if err != nil {
		return Assignment{}, err
	}
	if username == "" {
		return Assignment{}, fmt.Errorf("username: %w", ErrEmptyInput)
	}

	projectKey, err := p.Ask(ProjectKeyLabel)
	if err != nil {
		return Assignment{}, err
	}
	if projectKey == "" {
		return Assignment{}, fmt.Errorf("project key: %w", ErrEmptyInput)
	}
	return Assignment{Username: username, ProjectKey: projectKey}, nil
}
