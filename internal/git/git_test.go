package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// MockCommander is a test double for Commander that records calls and returns configured responses.
type MockCommander struct {
	// Calls records all commands that were executed
	Calls []MockCall
	// Responses maps command strings to their outputs/errors
	Responses map[string]MockResponse
}

// MockCall records a single command invocation.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockResponse holds the output and error for a mocked command.
type MockResponse struct {
	Output string
	Error  error
}

// NewMockCommander creates a mock commander with pre-configured responses.
func NewMockCommander() *MockCommander {
	return &MockCommander{
		Responses: make(map[string]MockResponse),
	}
}

// Run implements Commander.Run
func (m *MockCommander) Run(ctx context.Context, name string, args ...string) (string, error) {
	return m.RunInDir(ctx, "", name, args...)
}

// RunInDir implements Commander.RunInDir
func (m *MockCommander) RunInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, MockCall{Dir: dir, Name: name, Args: args})

	// Exact key first, then prefix match so tests can mock commands whose
	// trailing arguments carry generated paths.
	key := name + " " + strings.Join(args, " ")
	if resp, ok := m.Responses[key]; ok {
		return resp.Output, resp.Error
	}
	for k, resp := range m.Responses {
		if strings.HasPrefix(key, k) {
			return resp.Output, resp.Error
		}
	}
	// Default: command succeeds with empty output
	return "", nil
}

// SetResponse configures the response for a command.
func (m *MockCommander) SetResponse(cmd string, output string, err error) {
	m.Responses[cmd] = MockResponse{Output: output, Error: err}
}

// LastCall returns the most recent command call.
func (m *MockCommander) LastCall() *MockCall {
	if len(m.Calls) == 0 {
		return nil
	}
	return &m.Calls[len(m.Calls)-1]
}

func newTestClient(m *MockCommander) *Client {
	return NewClientWithCommander("/repo", m, afero.NewMemMapFs())
}

// TestListCommits verifies log parsing into commit snapshots, oldest first.
func TestListCommits(t *testing.T) {
	m := NewMockCommander()
	m.SetResponse("git rev-list --merges main..HEAD", "", nil)
	m.SetResponse("git log --reverse --format="+logFormat+" main..HEAD",
		"aaaa1111\x1faaaa111\x1fFirst commit\x1fAlice\x1f2026-08-01T10:00:00+02:00\n"+
			"bbbb2222\x1fbbbb222\x1fSecond commit\x1fBob\x1f2026-08-02T11:30:00+02:00", nil)

	commits, err := newTestClient(m).ListCommits(context.Background(), "main")
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	first := commits[0]
	if first.ID != "aaaa1111" || first.ShortID != "aaaa111" || first.Summary != "First commit" || first.Author != "Alice" {
		t.Fatalf("unexpected first commit: %+v", first)
	}
	if first.When.IsZero() {
		t.Fatalf("expected parsed author date")
	}
	if commits[1].Summary != "Second commit" {
		t.Fatalf("expected oldest-first ordering, got %+v", commits)
	}
}

func TestListCommits_EmptyRange(t *testing.T) {
	m := NewMockCommander()

	_, err := newTestClient(m).ListCommits(context.Background(), "main")
	if !errors.Is(err, ErrNoCommitsInRange) {
		t.Fatalf("expected ErrNoCommitsInRange, got %v", err)
	}
}

func TestListCommits_RejectsMergeCommits(t *testing.T) {
	m := NewMockCommander()
	m.SetResponse("git rev-list --merges main..HEAD", "cccc3333", nil)

	_, err := newTestClient(m).ListCommits(context.Background(), "main")
	if err == nil || !strings.Contains(err.Error(), "merge") {
		t.Fatalf("expected merge rejection, got %v", err)
	}
}

func TestListCommits_MalformedRecord(t *testing.T) {
	m := NewMockCommander()
	m.SetResponse("git log --reverse --format="+logFormat+" main..HEAD", "garbage", nil)

	_, err := newTestClient(m).ListCommits(context.Background(), "main")
	if err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Fatalf("expected malformed record error, got %v", err)
	}
}

func TestIsRepository(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*MockCommander)
		expected bool
	}{
		{
			name:     "inside a work tree",
			setup:    func(m *MockCommander) { m.SetResponse("git rev-parse --is-inside-work-tree", "true", nil) },
			expected: true,
		},
		{
			name: "not a repository",
			setup: func(m *MockCommander) {
				m.SetResponse("git rev-parse --is-inside-work-tree", "", errors.New("fatal: not a git repository"))
			},
			expected: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockCommander()
			tt.setup(m)
			if got := newTestClient(m).IsRepository(context.Background()); got != tt.expected {
				t.Errorf("IsRepository() = %v, want %v", got, tt.expected)
			}
		})
	}
}
