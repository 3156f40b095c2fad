package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Action represents the operation applied to a single commit in a rewrite plan.
type Action string

const (
	// ActionPick keeps the commit as-is.
	ActionPick Action = "pick"
	// ActionReword keeps the commit but replaces its message.
	ActionReword Action = "reword"
	// ActionEdit keeps the commit and pauses the rewrite for amending.
	ActionEdit Action = "edit"
	// ActionSquash folds the commit into its predecessor, keeping both messages.
	ActionSquash Action = "squash"
	// ActionFixup folds the commit into its predecessor, discarding its message.
	ActionFixup Action = "fixup"
	// ActionDrop removes the commit from the rewritten history.
	ActionDrop Action = "drop"
)

// Actions lists every action in display order.
var Actions = []Action{ActionPick, ActionReword, ActionEdit, ActionSquash, ActionFixup, ActionDrop}

// Valid returns true if the action is one of the six recognized kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionPick, ActionReword, ActionEdit, ActionSquash, ActionFixup, ActionDrop:
		return true
	default:
		return false
	}
}

// IsFold returns true for actions that collapse a commit into its predecessor.
func (a Action) IsFold() bool {
	return a == ActionSquash || a == ActionFixup
}

// ShortForm returns the single-letter abbreviation used by the UI keymap.
func (a Action) ShortForm() string {
	switch a {
	case ActionPick:
		return "p"
	case ActionReword:
		return "r"
	case ActionEdit:
		return "e"
	case ActionSquash:
		return "s"
	case ActionFixup:
		return "f"
	case ActionDrop:
		return "d"
	default:
		return string(a)
	}
}

// Commit is an immutable snapshot of a commit as returned by the backend
// listing. It is captured once when a plan opens and never mutated.
type Commit struct {
	ID      string    `json:"id" yaml:"id" validate:"required"`
	ShortID string    `json:"shortId" yaml:"shortId" validate:"required"`
	Summary string    `json:"summary" yaml:"summary"`
	Author  string    `json:"author,omitempty" yaml:"author,omitempty"`
	When    time.Time `json:"when,omitempty" yaml:"when,omitempty"`
}

// PlanEntry pairs a commit snapshot with the action the user assigned to it.
// RewordText is only meaningful while Action is ActionReword.
type PlanEntry struct {
	Commit     Commit `json:"commit" yaml:"commit" validate:"required"`
	Action     Action `json:"action" yaml:"action" validate:"required,oneof=pick reword edit squash fixup drop"`
	RewordText string `json:"rewordText,omitempty" yaml:"rewordText,omitempty"`
}

// ID returns the entry's identity, which is the full commit identifier.
func (e PlanEntry) ID() string {
	return e.Commit.ID
}

// FindingKind classifies a structural validation error.
type FindingKind string

const (
	// FindingOrphanedFold marks a squash/fixup entry with no valid
	// predecessor to fold into.
	FindingOrphanedFold FindingKind = "orphaned-fold"
)

// Finding associates a plan entry with a structural error.
type Finding struct {
	EntryID string      `json:"entryId" yaml:"entryId"`
	Kind    FindingKind `json:"kind" yaml:"kind"`
}

// PreviewGroup is one commit in the projected post-rewrite history: a head
// entry plus the fold entries that collapse into it. A group with an empty
// HeadID is an error marker for an orphaned fold with no head to join.
type PreviewGroup struct {
	HeadID      string `json:"headId" yaml:"headId"`
	Message     string `json:"message" yaml:"message"`
	FoldedCount int    `json:"foldedCount" yaml:"foldedCount"`
	Errored     bool   `json:"errored,omitempty" yaml:"errored,omitempty"`
}

// PlanStats aggregates a plan into the counters the dialog footer shows.
type PlanStats struct {
	Removed   int `json:"removed" yaml:"removed"`
	Reworded  int `json:"reworded" yaml:"reworded"`
	Resulting int `json:"resulting" yaml:"resulting"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Namespace(), e.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errorMessages, "; "))
	}
	return nil
}
