package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner produces an engine's output for one corpus case.
type Runner interface {
	Name() string
	Run(ctx context.Context, caseID string) (*Output, error)
}

// Command runs an engine binary as `<binary> --corpus <path> --case-id <id>`
// and reads its JSON output from stdout.
type Command struct {
	name       string
	binary     string
	args       []string
	corpusPath string
	dir        string
	env        []string
}

// NewCommand creates a subprocess runner. binary may carry leading arguments
// (for example "node dist/runner.js"); they are split on whitespace.
func NewCommand(name, binary, corpusPath string) (*Command, error) {
	fields := strings.Fields(binary)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s runner: empty command", name)
	}
	return &Command{
		name:       name,
		binary:     fields[0],
		args:       fields[1:],
		corpusPath: corpusPath,
	}, nil
}

// SetDir sets the working directory for the subprocess.
func (c *Command) SetDir(dir string) {
	c.dir = dir
}

// SetEnv appends KEY=VALUE entries to the inherited environment.
func (c *Command) SetEnv(env []string) {
	c.env = env
}

// Name returns the engine role this runner was created for.
func (c *Command) Name() string {
	return c.name
}

// Binary returns the executable that will be started.
func (c *Command) Binary() string {
	return c.binary
}

// buildArgs constructs the argument list for one case.
func (c *Command) buildArgs(caseID string) []string {
	args := make([]string, 0, len(c.args)+4)
	args = append(args, c.args...)
	return append(args, "--corpus", c.corpusPath, "--case-id", caseID)
}

// Run executes the engine for caseID. Stderr is kept for the error message
// when the process fails.
func (c *Command) Run(ctx context.Context, caseID string) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.binary, c.buildArgs(caseID)...)
	cmd.Dir = c.dir
	cmd.Env = append(os.Environ(), c.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w (stderr: %s)", c.binary, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", c.binary, err)
	}

	out, err := Parse(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.binary, err)
	}
	return out, nil
}

// LookPath reports whether the runner's executable can be found.
func (c *Command) LookPath() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("%s runner %q not found: %w", c.name, c.binary, err)
	}
	return nil
}
