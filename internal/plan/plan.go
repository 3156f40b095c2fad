// Package plan implements the history-rewrite planning engine: an ordered,
// mutable-by-replacement sequence of plan entries plus the pure functions
// that validate, preview, and serialize it. Operations return a new Plan;
// callers never observe partial mutation.
package plan

import (
	"fmt"

	"github.com/histkit/replan/models"
)

// Plan is the ordered sequence of entries being edited. Order is the replay
// order, oldest commit first, matching the backend's listing order. Entry
// identity is the full commit id; entries are never duplicated or deleted
// (dropping a commit sets its action to drop, it does not shrink the plan).
type Plan struct {
	entries []models.PlanEntry
}

// New builds a plan over the given commits, oldest first, with every entry
// starting as pick.
func New(commits []models.Commit) Plan {
	entries := make([]models.PlanEntry, len(commits))
	for i, c := range commits {
		entries[i] = models.PlanEntry{Commit: c, Action: models.ActionPick}
	}
	return Plan{entries: entries}
}

// FromEntries builds a plan directly from entries. Used by tests and by the
// export command when reconstructing a plan from a dump.
func FromEntries(entries []models.PlanEntry) Plan {
	cp := make([]models.PlanEntry, len(entries))
	copy(cp, entries)
	return Plan{entries: cp}
}

// Len returns the number of entries.
func (p Plan) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entry sequence in replay order.
func (p Plan) Entries() []models.PlanEntry {
	cp := make([]models.PlanEntry, len(p.entries))
	copy(cp, p.entries)
	return cp
}

// Entry returns the entry with the given commit id.
func (p Plan) Entry(id string) (models.PlanEntry, bool) {
	if i := p.indexOf(id); i >= 0 {
		return p.entries[i], true
	}
	return models.PlanEntry{}, false
}

func (p Plan) indexOf(id string) int {
	for i := range p.entries {
		if p.entries[i].Commit.ID == id {
			return i
		}
	}
	return -1
}

// mustIndexOf resolves an entry id that callers are contractually required
// to hold. An unknown id is a programming error, not a user-facing one.
func (p Plan) mustIndexOf(id string) int {
	i := p.indexOf(id)
	if i < 0 {
		panic(fmt.Sprintf("plan: no entry with id %q", id))
	}
	return i
}

func (p Plan) clone() Plan {
	return Plan{entries: p.Entries()}
}

// SetAction assigns a new action to the entry with the given id and returns
// the updated plan. Entering reword seeds RewordText with the commit's
// original summary; leaving reword for a non-fold action clears it. Panics
// if the id does not exist or the action is not one of the six kinds.
func (p Plan) SetAction(id string, action models.Action) Plan {
	if !action.Valid() {
		panic(fmt.Sprintf("plan: invalid action %q", action))
	}
	out := p.clone()
	i := out.mustIndexOf(id)
	out.entries[i].Action = action
	switch {
	case action == models.ActionReword:
		out.entries[i].RewordText = out.entries[i].Commit.Summary
	case !action.IsFold():
		out.entries[i].RewordText = ""
	}
	return out
}

// SetRewordText replaces the pending reword message for the entry with the
// given id. Setting it on an entry whose action is not reword is a no-op;
// the UI keeps action and text in sync, so there is nothing to report.
func (p Plan) SetRewordText(id, text string) Plan {
	i := p.indexOf(id)
	if i < 0 || p.entries[i].Action != models.ActionReword {
		return p
	}
	out := p.clone()
	out.entries[i].RewordText = text
	return out
}

// Reorder moves the entry with the given id to newIndex, clamped to the
// valid range, shifting the entries in between by one. No entry is created
// or destroyed and no action changes. Panics on an unknown id.
func (p Plan) Reorder(id string, newIndex int) Plan {
	out := p.clone()
	from := out.mustIndexOf(id)
	if newIndex < 0 {
		newIndex = 0
	}
	if max := len(out.entries) - 1; newIndex > max {
		newIndex = max
	}
	if newIndex == from {
		return out
	}
	entry := out.entries[from]
	out.entries = append(out.entries[:from], out.entries[from+1:]...)
	rest := append([]models.PlanEntry{entry}, out.entries[newIndex:]...)
	out.entries = append(out.entries[:newIndex], rest...)
	return out
}
