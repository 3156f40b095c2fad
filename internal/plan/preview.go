package plan

import "github.com/histkit/replan/models"

// Preview projects the plan into the commit sequence the rewrite would
// produce. A single left-to-right pass opens a group at every pick, reword,
// or edit entry and appends following fold entries to it; drops appear in no
// group. An orphaned fold (first entry, or preceded by a drop) flags its
// would-be group as errored, or, when no group has opened yet, becomes a
// dedicated headless error marker.
func (p Plan) Preview() ([]models.PreviewGroup, models.PlanStats) {
	var (
		groups []models.PreviewGroup
		stats  models.PlanStats
		open   = -1 // index into groups of the group accepting folds
		folds  int
	)
	for i, e := range p.entries {
		switch e.Action {
		case models.ActionPick, models.ActionEdit:
			groups = append(groups, models.PreviewGroup{
				HeadID:  e.Commit.ID,
				Message: e.Commit.Summary,
			})
			open = len(groups) - 1
		case models.ActionReword:
			stats.Reworded++
			groups = append(groups, models.PreviewGroup{
				HeadID:  e.Commit.ID,
				Message: e.RewordText,
			})
			open = len(groups) - 1
		case models.ActionDrop:
			stats.Removed++
			// A drop closes nothing by itself, but any fold directly
			// after it is orphaned; that is handled below by position.
		case models.ActionSquash, models.ActionFixup:
			folds++
			orphaned := i == 0 || p.entries[i-1].Action == models.ActionDrop
			if open < 0 {
				groups = append(groups, models.PreviewGroup{Errored: true})
				open = len(groups) - 1
				continue
			}
			groups[open].FoldedCount++
			if orphaned {
				groups[open].Errored = true
			}
		}
	}
	stats.Resulting = len(p.entries) - stats.Removed - folds
	return groups, stats
}

// Stats computes the aggregate counters without materializing the groups.
func (p Plan) Stats() models.PlanStats {
	_, stats := p.Preview()
	return stats
}
