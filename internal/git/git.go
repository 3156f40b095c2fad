// Package git provides shell-based wrappers for the git commands the
// rewrite planner consumes. It uses os/exec instead of go-git to ensure
// compatibility with the user's SSH keys, GPG signing config, and other
// shell environment settings.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/histkit/replan/models"
)

// Common errors returned by git operations.
var (
	ErrGitNotInstalled      = errors.New("git is not installed or not in PATH")
	ErrNotGitRepository     = errors.New("not a git repository")
	ErrNoCommitsInRange     = errors.New("no commits between upstream and HEAD")
	ErrMissingRewordMessage = errors.New("reword instruction without a staged message")
)

// Commander is an interface for executing commands.
// This allows mocking in tests.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	RunInDir(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ShellCommander executes real shell commands.
type ShellCommander struct{}

// Run executes a command in the current directory.
func (c *ShellCommander) Run(ctx context.Context, name string, args ...string) (string, error) {
	return c.RunInDir(ctx, "", name, args...)
}

// RunInDir executes a command in the specified directory.
func (c *ShellCommander) RunInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		// Include stderr in error for debugging
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("%w: %s", err, errMsg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client wraps the git operations for one repository.
type Client struct {
	commander Commander
	fs        afero.Fs
	workDir   string
}

// NewClient creates a new git client for the given repository directory.
func NewClient(workDir string) *Client {
	return &Client{
		commander: &ShellCommander{},
		fs:        afero.NewOsFs(),
		workDir:   workDir,
	}
}

// NewClientWithCommander creates a client with a custom commander and
// filesystem (for testing).
func NewClientWithCommander(workDir string, commander Commander, fs afero.Fs) *Client {
	return &Client{
		commander: commander,
		fs:        fs,
		workDir:   workDir,
	}
}

// IsGitInstalled checks if the git binary is available in PATH.
func (c *Client) IsGitInstalled(ctx context.Context) bool {
	_, err := c.commander.Run(ctx, "git", "--version")
	return err == nil
}

// IsRepository checks if the working directory is a git repository.
func (c *Client) IsRepository(ctx context.Context) bool {
	_, err := c.commander.RunInDir(ctx, c.workDir, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// CurrentBranch returns the name of the currently checked out branch.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.commander.RunInDir(ctx, c.workDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return out, nil
}

// logFormat emits one record per commit with unit-separated fields:
// full hash, abbreviated hash, subject, author name, author date.
const logFormat = "%H%x1f%h%x1f%s%x1f%an%x1f%aI"

// ListCommits returns the commits between upstream and HEAD, oldest first,
// which is the replay order a rewrite plan is built over. Merge commits in the range
// are rejected; the planner only handles linear runs.
func (c *Client) ListCommits(ctx context.Context, upstream string) ([]models.Commit, error) {
	merges, err := c.commander.RunInDir(ctx, c.workDir, "git", "rev-list", "--merges", upstream+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("check for merges: %w", err)
	}
	if merges != "" {
		return nil, fmt.Errorf("range %s..HEAD contains merge commits", upstream)
	}

	out, err := c.commander.RunInDir(ctx, c.workDir, "git", "log", "--reverse", "--format="+logFormat, upstream+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	if out == "" {
		return nil, ErrNoCommitsInRange
	}

	var commits []models.Commit
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed log record: %q", line)
		}
		commit := models.Commit{
			ID:      fields[0],
			ShortID: fields[1],
			Summary: fields[2],
			Author:  fields[3],
		}
		if when, err := time.Parse(time.RFC3339, fields[4]); err == nil {
			commit.When = when
		}
		commits = append(commits, commit)
	}
	return commits, nil
}
