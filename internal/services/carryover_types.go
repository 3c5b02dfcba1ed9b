package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/goalgrid-backend/internal/period"
)

// CarryOverSearchHorizonWeeks bounds how far back FindLastNonEmptyWeek will
// look: one quarter's worth of weeks, safety margin included.
const CarryOverSearchHorizonWeeks = 13

// CarryOverMode says what happens to a weekly goal and its daily children
// when they are pulled forward.
type CarryOverMode string

const (
	// ModeMoveAll relocates the weekly goal and all of its children by
	// patching their week coordinate. Chosen when nothing is complete yet.
	ModeMoveAll CarryOverMode = "move_all"
	// ModeCopyChildren copies the weekly goal forward and copies only the
	// incomplete daily children; completed children stay attached to the
	// original in the source week.
	ModeCopyChildren CarryOverMode = "copy_children"
)

const SkipReasonAlreadyMoved = "already_moved"

type WeekCarryOverRequest struct {
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`
	// ConsolidateToDay reassigns every carried daily goal onto a single day
	// of the destination week when set.
	ConsolidateToDay *int `json:"consolidateToDay,omitempty"`
}

type QuarterCarryOverRequest struct {
	// From addresses the final week of the source quarter. Zero value means
	// "derive from the quarter before To".
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`
}

type AdhocMoveRequest struct {
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`
	// OnlyIncomplete restricts the move to goals not yet complete. The week
	// carryover engine moves adhoc goals with this set; the standalone mover
	// defaults to moving every goal under the source week label.
	OnlyIncomplete bool `json:"onlyIncomplete"`
}

// GoalSummary is the read-only projection previews are built from; safe to
// render directly.
type GoalSummary struct {
	GoalID   uuid.UUID  `json:"goalId"`
	Title    string     `json:"title"`
	Depth    int        `json:"depth"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

type WeeklyCarrySummary struct {
	GoalSummary
	Mode               CarryOverMode `json:"mode"`
	IncompleteChildren []GoalSummary `json:"incompleteChildren,omitempty"`
	CompleteChildren   int           `json:"completeChildren"`
}

type QuarterlyUpdateSummary struct {
	GoalSummary
	IsStarred bool `json:"isStarred"`
	IsPinned  bool `json:"isPinned"`
}

type SkippedGoal struct {
	GoalID uuid.UUID `json:"goalId"`
	Title  string    `json:"title"`
	Reason string    `json:"reason"`
}

type WeekCarryOverPreview struct {
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`

	WeekStatesToCopy       []WeeklyCarrySummary     `json:"weekStatesToCopy"`
	DailyGoalsToMove       []GoalSummary            `json:"dailyGoalsToMove"`
	QuarterlyGoalsToUpdate []QuarterlyUpdateSummary `json:"quarterlyGoalsToUpdate"`
	AdhocGoalsToMove       []GoalSummary            `json:"adhocGoalsToMove"`
	SkippedGoals           []SkippedGoal            `json:"skippedGoals"`
}

type WeekCarryOverResult struct {
	WeekStatesCopied      int `json:"weekStatesCopied"`
	DailyGoalsMoved       int `json:"dailyGoalsMoved"`
	QuarterlyGoalsUpdated int `json:"quarterlyGoalsUpdated"`
	AdhocGoalsMoved       int `json:"adhocGoalsMoved"`

	// Preview echoes the plan that was executed, for confirmation UI.
	Preview *WeekCarryOverPreview `json:"preview"`
}

type QuarterCarryOverPreview struct {
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`

	QuarterlyGoalsToCopy []QuarterlyUpdateSummary `json:"quarterlyGoalsToCopy"`
	SkippedGoals         []SkippedGoal            `json:"skippedGoals"`
}

type QuarterCarryOverResult struct {
	QuarterlyGoalsCopied int `json:"quarterlyGoalsCopied"`
	WeekStatesCopied     int `json:"weekStatesCopied"`

	Preview *QuarterCarryOverPreview `json:"preview"`
}

type AdhocMovePreview struct {
	From period.TimePeriod `json:"from"`
	To   period.TimePeriod `json:"to"`

	AdhocGoalsToMove []GoalSummary `json:"adhocGoalsToMove"`
}

type AdhocMoveResult struct {
	AdhocGoalsMoved int `json:"adhocGoalsMoved"`

	Preview *AdhocMovePreview `json:"preview"`
}
