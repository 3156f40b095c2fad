package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histkit/replan/models"
)

func TestValidate_FoldWithPickPredecessorIsValid(t *testing.T) {
	p := New(testCommits(
		[2]string{"abc123", "First commit"},
		[2]string{"def456", "Second commit"},
		[2]string{"ghi789", "Third commit"},
	))

	p = p.SetAction("ghi789", models.ActionSquash)

	assert.Empty(t, p.Validate())
	assert.True(t, p.Submittable())
}

func TestValidate_FoldAtPositionZeroIsOrphaned(t *testing.T) {
	p := New(testCommits(
		[2]string{"abc123", "First commit"},
		[2]string{"def456", "Second commit"},
		[2]string{"ghi789", "Third commit"},
	))

	p = p.SetAction("abc123", models.ActionFixup)

	findings := p.Validate()
	require.Len(t, findings, 1)
	assert.Equal(t, "abc123", findings[0].EntryID)
	assert.Equal(t, models.FindingOrphanedFold, findings[0].Kind)
	assert.False(t, p.Submittable())
}

func TestValidate_FoldAfterDropIsOrphaned(t *testing.T) {
	p := New(testCommits(
		[2]string{"abc123", "First"},
		[2]string{"def456", "Second"},
		[2]string{"ghi789", "Third"},
	))
	p = p.SetAction("def456", models.ActionDrop)
	p = p.SetAction("ghi789", models.ActionSquash)

	orphans := p.Orphans()
	assert.True(t, orphans["ghi789"])
	assert.Len(t, orphans, 1)
}

func TestValidate_FoldAfterFoldIsValid(t *testing.T) {
	p := New(testCommits(
		[2]string{"abc123", "First"},
		[2]string{"def456", "Second"},
		[2]string{"ghi789", "Third"},
	))
	p = p.SetAction("def456", models.ActionFixup)
	p = p.SetAction("ghi789", models.ActionFixup)

	assert.Empty(t, p.Validate())
}

func TestValidate_ReorderingResolvesOrphan(t *testing.T) {
	p := New(testCommits(
		[2]string{"abc123", "First"},
		[2]string{"def456", "Second"},
	))
	p = p.SetAction("abc123", models.ActionSquash)
	require.False(t, p.Submittable())

	p = p.Reorder("abc123", 1)

	assert.True(t, p.Submittable())
}

func TestValidate_PositionZeroFoldOrphanedForEveryPlan(t *testing.T) {
	for _, action := range []models.Action{models.ActionSquash, models.ActionFixup} {
		p := New(testCommits(
			[2]string{"aaa", "One"},
			[2]string{"bbb", "Two"},
		))
		p = p.SetAction("aaa", action)
		assert.True(t, p.Orphans()["aaa"], "action %s", action)
	}
}
