package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ExecuteRewrite replays the commits between upstream and HEAD according to
// the planner's instruction text. It stages the instructions as a todo file
// and drives `git rebase -i` non-interactively by installing the file
// through sequence.editor.
//
// Reword messages cannot ride on the todo lines, so they travel out of band:
// each reword instruction is rewritten into a pick followed by an exec that
// amends the commit from a staged message file. Squash stops accept git's
// combined default message (core.editor is forced to true), and fixup
// discards the folded message on its own.
func (c *Client) ExecuteRewrite(ctx context.Context, upstream, todo string, messages map[string]string) error {
	stagingDir, err := afero.TempDir(c.fs, "", "replan-rebase-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = c.fs.RemoveAll(stagingDir) }()

	gitTodo, err := c.stageTodo(stagingDir, todo, messages)
	if err != nil {
		return err
	}
	todoPath := filepath.Join(stagingDir, "git-rebase-todo")
	if err := afero.WriteFile(c.fs, todoPath, []byte(gitTodo), 0o600); err != nil {
		return fmt.Errorf("write todo: %w", err)
	}

	_, err = c.commander.RunInDir(ctx, c.workDir, "git",
		"-c", "sequence.editor=cp '"+todoPath+"'",
		"-c", "core.editor=true",
		"rebase", "--interactive", upstream)
	if err != nil {
		// Leave the repository in a resolvable state for the host's
		// conflict tooling; this engine only reports the failure.
		return err
	}
	return nil
}

// stageTodo translates the planner's instruction text into the todo git
// consumes, writing one message file per reword into the staging dir. Lines
// other than reword pass through unchanged.
func (c *Client) stageTodo(stagingDir, todo string, messages map[string]string) (string, error) {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(todo, "\n"), "\n") {
		keyword, rest, _ := strings.Cut(line, " ")
		if keyword != "reword" {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		shortID, _, _ := strings.Cut(rest, " ")
		message, ok := rewordMessage(messages, shortID)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingRewordMessage, shortID)
		}
		msgPath := filepath.Join(stagingDir, "msg-"+shortID)
		if err := afero.WriteFile(c.fs, msgPath, []byte(message+"\n"), 0o600); err != nil {
			return "", fmt.Errorf("write reword message: %w", err)
		}
		b.WriteString("pick ")
		b.WriteString(rest)
		b.WriteByte('\n')
		b.WriteString("exec git commit --amend -F '" + msgPath + "'\n")
	}
	return b.String(), nil
}

// rewordMessage resolves a staged message by its abbreviated id. Messages
// are keyed by full commit id; the todo carries the abbreviation.
func rewordMessage(messages map[string]string, shortID string) (string, bool) {
	if msg, ok := messages[shortID]; ok {
		return msg, true
	}
	for id, msg := range messages {
		if strings.HasPrefix(id, shortID) {
			return msg, true
		}
	}
	return "", false
}
