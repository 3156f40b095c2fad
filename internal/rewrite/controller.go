// Package rewrite drives a rewrite plan through its lifecycle: the user
// edits, submits, and the plan is handed to the external executor exactly
// once. The controller is the only stateful piece of the engine; plan
// operations themselves are pure.
package rewrite

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/histkit/replan/internal/notify"
	"github.com/histkit/replan/internal/plan"
	"github.com/histkit/replan/models"
)

// State is the controller's position in the dialog lifecycle.
type State int

const (
	// StateEditing accepts plan mutations and submission.
	StateEditing State = iota
	// StateSubmitting has the one in-flight executor call; edits and a
	// second submit are refused until it returns.
	StateSubmitting
	// StateSucceeded is terminal: the rewrite applied and the dialog
	// should close.
	StateSucceeded
	// StateFailed is editing with the last executor rejection attached:
	// the plan is intact and every edit and resubmission is allowed.
	StateFailed
	// StateCancelled is terminal: the user closed the dialog while
	// editing. Cancelling during submission is not offered.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Controller errors.
var (
	ErrNotEditing  = errors.New("plan is not editable in the current state")
	ErrPlanInvalid = errors.New("plan has unresolved validation errors")
)

// Executor performs the actual history rewrite. It is treated as opaque:
// it either returns nil or an error whose message is shown to the user.
type Executor interface {
	ExecuteRewrite(ctx context.Context, upstream, todo string, messages map[string]string) error
}

// Controller owns one plan for the lifetime of one dialog.
type Controller struct {
	mu       sync.Mutex
	state    State
	plan     plan.Plan
	failure  string
	repoPath string
	upstream string
	executor Executor
	bus      notify.Publisher
}

// NewController starts a controller in the editing state over a fresh plan
// built from the listed commits.
func NewController(repoPath, upstream string, commits []models.Commit, executor Executor, bus notify.Publisher) *Controller {
	return &Controller{
		state:    StateEditing,
		plan:     plan.New(commits),
		repoPath: repoPath,
		upstream: upstream,
		executor: executor,
		bus:      bus,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Plan returns the current plan value.
func (c *Controller) Plan() plan.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Failure returns the message of the last failed submission, empty if none.
func (c *Controller) Failure() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// editable reports whether plan mutations are currently accepted. Failed is
// an editing state with an error banner, not a dead end.
func (c *Controller) editable() bool {
	return c.state == StateEditing || c.state == StateFailed
}

// edit applies a plan transformation while editing is allowed.
func (c *Controller) edit(apply func(plan.Plan) plan.Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editable() {
		return ErrNotEditing
	}
	c.plan = apply(c.plan)
	return nil
}

// SetAction assigns an action to the entry with the given id.
func (c *Controller) SetAction(id string, action models.Action) error {
	return c.edit(func(p plan.Plan) plan.Plan { return p.SetAction(id, action) })
}

// SetRewordText replaces the pending reword message for an entry.
func (c *Controller) SetRewordText(id, text string) error {
	return c.edit(func(p plan.Plan) plan.Plan { return p.SetRewordText(id, text) })
}

// Reorder moves an entry to a new position.
func (c *Controller) Reorder(id string, newIndex int) error {
	return c.edit(func(p plan.Plan) plan.Plan { return p.Reorder(id, newIndex) })
}

// ApplyAutosquash runs the fixup/squash matcher over the plan.
func (c *Controller) ApplyAutosquash() error {
	return c.edit(func(p plan.Plan) plan.Plan { return p.ApplyAutosquash() })
}

// Cancel closes the dialog. Only an editing plan can be cancelled; the
// in-flight executor call cannot be aborted from here.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editable() {
		return ErrNotEditing
	}
	c.state = StateCancelled
	return nil
}

// Submit serializes the plan and invokes the executor. It blocks until the
// executor returns, so callers run it off the UI loop; the controller
// refuses edits and further submissions in the meantime. On success the
// repository-changed notification is published and the state becomes
// Succeeded; on failure the executor's message is recorded and the plan
// returns to editing unchanged. No timeout is imposed here; a host that
// wants one passes a context with a deadline.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.editable() {
		c.mu.Unlock()
		return ErrNotEditing
	}
	if !c.plan.Submittable() {
		c.mu.Unlock()
		return ErrPlanInvalid
	}
	c.state = StateSubmitting
	c.failure = ""
	attempt := uuid.New()
	todo := c.plan.Serialize()
	messages := c.plan.RewordMessages()
	c.mu.Unlock()

	slog.Info("submitting rewrite plan",
		"attempt", attempt, "repo", c.repoPath, "upstream", c.upstream)
	err := c.executor.ExecuteRewrite(ctx, c.upstream, todo, messages)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.failure = err.Error()
		slog.Warn("rewrite failed", "attempt", attempt, "error", err)
		return err
	}
	c.state = StateSucceeded
	slog.Info("rewrite succeeded", "attempt", attempt, "repo", c.repoPath)
	if c.bus != nil {
		c.bus.Publish(notify.Event{
			ID:   attempt,
			Kind: notify.KindHistoryRewritten,
			Repo: c.repoPath,
		})
	}
	return nil
}
