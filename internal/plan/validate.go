package plan

import "github.com/histkit/replan/models"

// Validate reports every structurally invalid entry in the plan. The single
// rule: a squash/fixup entry is orphaned when it is first in the sequence or
// when the entry immediately before it is a drop, because nothing is left for
// it to fold into. Reword text quality is a UI concern and is not checked.
func (p Plan) Validate() []models.Finding {
	var findings []models.Finding
	for i, e := range p.entries {
		if !e.Action.IsFold() {
			continue
		}
		if i == 0 || p.entries[i-1].Action == models.ActionDrop {
			findings = append(findings, models.Finding{
				EntryID: e.Commit.ID,
				Kind:    models.FindingOrphanedFold,
			})
		}
	}
	return findings
}

// Orphans returns the set of entry ids currently reported by Validate.
func (p Plan) Orphans() map[string]bool {
	orphans := make(map[string]bool)
	for _, f := range p.Validate() {
		orphans[f.EntryID] = true
	}
	return orphans
}

// Submittable reports whether the plan has no outstanding findings and may
// be handed to the executor.
func (p Plan) Submittable() bool {
	return len(p.Validate()) == 0
}
