package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_Valid(t *testing.T) {
	for _, a := range Actions {
		assert.True(t, a.Valid(), "action %s", a)
	}
	assert.False(t, Action("exec").Valid())
	assert.False(t, Action("").Valid())
}

func TestAction_IsFold(t *testing.T) {
	assert.True(t, ActionSquash.IsFold())
	assert.True(t, ActionFixup.IsFold())
	for _, a := range []Action{ActionPick, ActionReword, ActionEdit, ActionDrop} {
		assert.False(t, a.IsFold(), "action %s", a)
	}
}

func TestAction_ShortFormsAreUnique(t *testing.T) {
	seen := map[string]Action{}
	for _, a := range Actions {
		short := a.ShortForm()
		assert.Len(t, short, 1)
		prev, dup := seen[short]
		assert.False(t, dup, "%s and %s share short form %q", prev, a, short)
		seen[short] = a
	}
}

func TestValidateStruct_PlanEntry(t *testing.T) {
	entry := PlanEntry{
		Commit: Commit{ID: "aaaa1111", ShortID: "aaaa111", Summary: "First"},
		Action: ActionPick,
	}
	assert.NoError(t, ValidateStruct(entry))

	entry.Action = Action("exec")
	assert.Error(t, ValidateStruct(entry))

	entry.Action = ActionPick
	entry.Commit.ID = ""
	assert.Error(t, ValidateStruct(entry))
}
