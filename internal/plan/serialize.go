package plan

import (
	"strings"

	"github.com/histkit/replan/models"
)

// Serialize renders the plan as the flat instruction text the rewrite
// executor consumes: one `<action> <short-id> <summary>` line per entry, in
// replay order. Drops are emitted explicitly, since the executor expects one
// instruction per input commit. Reword text never appears here; it travels
// out of band via RewordMessages.
func (p Plan) Serialize() string {
	var b strings.Builder
	for _, e := range p.entries {
		b.WriteString(string(e.Action))
		b.WriteByte(' ')
		b.WriteString(e.Commit.ShortID)
		b.WriteByte(' ')
		b.WriteString(e.Commit.Summary)
		b.WriteByte('\n')
	}
	return b.String()
}

// RewordMessages collects the replacement messages keyed by full commit id
// for every reword entry. The executor stages these as message files next to
// the instruction text.
func (p Plan) RewordMessages() map[string]string {
	msgs := make(map[string]string)
	for _, e := range p.entries {
		if e.Action == models.ActionReword {
			msgs[e.Commit.ID] = e.RewordText
		}
	}
	return msgs
}
