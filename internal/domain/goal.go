package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Goal hierarchy depths. Adhoc goals sit outside the tree entirely.
const (
	DepthQuarterly = 0
	DepthWeekly    = 1
	DepthDaily     = 2
	DepthAdhoc     = -1
)

const (
	CarryOverTypeWeek    = "week"
	CarryOverTypeQuarter = "quarter"
)

// CarryOverFrom links a carried-over copy back to the goal it was copied
// from and to the original, never-carried-over ancestor. Dedup across
// carryover runs keys on RootGoalID, so these json names are load-bearing.
type CarryOverFrom struct {
	PreviousGoalID uuid.UUID `json:"previousGoalId"`
	RootGoalID     uuid.UUID `json:"rootGoalId"`
}

type CarryOver struct {
	Type     string        `json:"type"`
	NumWeeks int           `json:"numWeeks"`
	FromGoal CarryOverFrom `json:"fromGoal"`
}

// AdhocInfo scopes an unscheduled goal to a week label (and optionally a day)
// without putting it into the quarterly tree.
type AdhocInfo struct {
	WeekNumber int        `json:"weekNumber"`
	DayOfWeek  *int       `json:"dayOfWeek,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	DomainID   *uuid.UUID `json:"domainId,omitempty"`
}

type Goal struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_goal_user_quarter,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Title   string         `gorm:"not null" json:"title"`
	Details datatypes.JSON `gorm:"column:details" json:"details,omitempty"`

	Year    int `gorm:"not null;index:idx_goal_user_quarter,priority:2" json:"year"`
	Quarter int `gorm:"not null;index:idx_goal_user_quarter,priority:3" json:"quarter"`

	Depth    int        `gorm:"not null" json:"depth"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`
	InPath   string     `gorm:"column:in_path" json:"inPath"`

	IsComplete  bool       `gorm:"not null;default:false" json:"isComplete"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	DomainID *uuid.UUID `gorm:"type:uuid;index" json:"domainId,omitempty"`

	Adhoc     *AdhocInfo `gorm:"type:jsonb;serializer:json" json:"adhoc,omitempty"`
	CarryOver *CarryOver `gorm:"type:jsonb;serializer:json" json:"carryOver,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Goal) TableName() string { return "goal" }

// DailyState carries the day-of-week assignment for a daily goal's week
// instance.
type DailyState struct {
	DayOfWeek int        `json:"dayOfWeek"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}

// GoalWeekState is the per-week association for a goal: whether it is starred
// or pinned that week, whether that week instance is complete, and the daily
// assignment when the goal is a daily goal. A weekly or daily goal belongs to
// a week exactly when a row exists for that (goal, week).
type GoalWeekState struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_week_state_goal_week,priority:1;index:idx_week_state_user_week,priority:1" json:"user_id"`

	Year       int `gorm:"not null;uniqueIndex:idx_week_state_goal_week,priority:2;index:idx_week_state_user_week,priority:2" json:"year"`
	Quarter    int `gorm:"not null;uniqueIndex:idx_week_state_goal_week,priority:3;index:idx_week_state_user_week,priority:3" json:"quarter"`
	WeekNumber int `gorm:"not null;uniqueIndex:idx_week_state_goal_week,priority:4;index:idx_week_state_user_week,priority:4" json:"weekNumber"`

	GoalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_week_state_goal_week,priority:5;index" json:"goalId"`
	Goal   *Goal     `gorm:"constraint:OnDelete:CASCADE;foreignKey:GoalID;references:ID" json:"goal,omitempty"`

	IsStarred  bool `gorm:"not null;default:false" json:"isStarred"`
	IsPinned   bool `gorm:"not null;default:false" json:"isPinned"`
	IsComplete bool `gorm:"not null;default:false" json:"isComplete"`

	Daily *DailyState `gorm:"type:jsonb;serializer:json" json:"daily,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GoalWeekState) TableName() string { return "goal_week_state" }

// GoalDomain is a user-defined categorization tag (work, health, ...).
type GoalDomain struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string    `gorm:"not null" json:"name"`
	Color  string    `gorm:"column:color" json:"color,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GoalDomain) TableName() string { return "goal_domain" }
