package git

import (
	"context"
	"errors"
	"fmt"
)

// Precheck failures. The dialog refuses to open on any of these; fixing
// them is the user's job, not the planner's.
var (
	ErrDirtyWorkingTree  = errors.New("working tree has uncommitted changes")
	ErrRewriteInProgress = errors.New("a rebase is already in progress")
	ErrUnknownUpstream   = errors.New("upstream reference not found")
)

// EnsureRewriteSafe verifies the repository can accept an interactive
// rewrite before a plan dialog opens:
//  1. the path is a git repository,
//  2. the upstream reference resolves,
//  3. no rebase is already in progress,
//  4. the working tree is clean (git refuses to rebase over local changes).
func (c *Client) EnsureRewriteSafe(ctx context.Context, upstream string) error {
	if !c.IsRepository(ctx) {
		return ErrNotGitRepository
	}

	if _, err := c.commander.RunInDir(ctx, c.workDir, "git", "rev-parse", "--verify", upstream); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownUpstream, upstream)
	}

	if c.rewriteInProgress(ctx) {
		return ErrRewriteInProgress
	}

	dirty, err := c.IsDirty(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return ErrDirtyWorkingTree
	}
	return nil
}

// IsDirty checks if the working directory has uncommitted changes.
func (c *Client) IsDirty(ctx context.Context) (bool, error) {
	output, err := c.commander.RunInDir(ctx, c.workDir, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("check dirty state: %w", err)
	}
	return output != "", nil
}

// rewriteInProgress reports whether a rebase state directory exists.
// REBASE_HEAD only resolves while git has a rebase stopped or running.
func (c *Client) rewriteInProgress(ctx context.Context) bool {
	_, err := c.commander.RunInDir(ctx, c.workDir, "git", "rev-parse", "--verify", "REBASE_HEAD")
	return err == nil
}
