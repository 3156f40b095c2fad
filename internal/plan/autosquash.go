package plan

import (
	"strings"

	"github.com/histkit/replan/models"
)

// Marker prefixes recognized on commit summaries. The prefix match is
// case-sensitive and requires the single separating space; the remainder is
// the targeted summary text.
const (
	fixupPrefix  = "fixup! "
	squashPrefix = "squash! "
)

// markerTarget splits a summary into the fold action the marker implies and
// the summary text it targets. ok is false for non-marker summaries and for
// markers with an empty target.
func markerTarget(summary string) (action models.Action, target string, ok bool) {
	switch {
	case strings.HasPrefix(summary, fixupPrefix):
		action, target = models.ActionFixup, summary[len(fixupPrefix):]
	case strings.HasPrefix(summary, squashPrefix):
		action, target = models.ActionSquash, summary[len(squashPrefix):]
	default:
		return "", "", false
	}
	if target == "" {
		return "", "", false
	}
	return action, target, true
}

// PendingAutosquash reports whether the plan contains at least one marker
// commit that has not been converted to a fold yet. The dialog shows the
// autosquash banner while this holds.
func (p Plan) PendingAutosquash() bool {
	for _, e := range p.entries {
		if _, _, ok := markerTarget(e.Commit.Summary); ok && !e.Action.IsFold() {
			return true
		}
	}
	return false
}

// ApplyAutosquash converts fixup!/squash! marker commits into fold entries
// positioned directly after the commit they target, preserving the relative
// order of multiple markers for the same target. Markers whose target cannot
// be found are left untouched; the validator, not the matcher, reports
// misassigned folds. The operation is idempotent.
func (p Plan) ApplyAutosquash() Plan {
	out := p.clone()

	// Snapshot marker ids up front so relocations performed for earlier
	// markers do not change which entries get processed.
	var markerIDs []string
	for _, e := range out.entries {
		if _, _, ok := markerTarget(e.Commit.Summary); ok {
			markerIDs = append(markerIDs, e.Commit.ID)
		}
	}

	for _, id := range markerIDs {
		idx := out.indexOf(id)
		action, target, _ := markerTarget(out.entries[idx].Commit.Summary)

		targetIdx := out.matchTarget(idx, target)
		if targetIdx < 0 {
			continue
		}
		out.entries[idx].Action = action

		// End of the contiguous fold run already attached to the target.
		runEnd := targetIdx + 1
		for runEnd < len(out.entries) && out.entries[runEnd].Action.IsFold() {
			runEnd++
		}
		if idx > targetIdx && idx < runEnd {
			// Already inside the target's fold run; moving it would
			// shuffle markers that are in their final place.
			continue
		}
		// The marker sits somewhere after the run (targets are always
		// earlier), so removing it leaves the insert position intact.
		entry := out.entries[idx]
		out.entries = append(out.entries[:idx], out.entries[idx+1:]...)
		insertAt := runEnd
		rest := append([]models.PlanEntry{entry}, out.entries[insertAt:]...)
		out.entries = append(out.entries[:insertAt], rest...)
	}
	return out
}

// matchTarget scans backward from the marker position for the nearest
// earlier entry whose summary equals the target exactly, falling back to the
// nearest earlier entry whose summary starts with the target. Returns -1
// when neither exists.
func (p Plan) matchTarget(markerIdx int, target string) int {
	prefixIdx := -1
	for i := markerIdx - 1; i >= 0; i-- {
		summary := p.entries[i].Commit.Summary
		if summary == target {
			return i
		}
		if prefixIdx < 0 && strings.HasPrefix(summary, target) {
			prefixIdx = i
		}
	}
	return prefixIdx
}
