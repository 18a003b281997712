package domain

import "time"

type TaskType string

const (
	TaskTypeDaily   TaskType = "daily"
	TaskTypeMission TaskType = "mission"
)

func (t TaskType) Valid() bool {
	return t == TaskTypeDaily || t == TaskTypeMission
}

type Task struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Type        TaskType   `db:"task_type" json:"type"`
	XPReward    int64      `db:"xp_reward" json:"xpReward"`
	CoinReward  int64      `db:"coin_reward" json:"coinReward"`
	IsCompleted bool       `db:"is_completed" json:"isCompleted"` // missions only
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	ArchivedAt  *time.Time `db:"archived_at" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// TaskCompletion is an append-only record of one completion.
// XPEarned and CoinsEarned hold the nominal, pre-bonus rewards.
type TaskCompletion struct {
	ID          int64     `db:"id" json:"id"`
	TaskID      int64     `db:"task_id" json:"taskId"`
	UserID      int64     `db:"user_id" json:"userId"`
	TaskType    TaskType  `db:"task_type" json:"taskType"`
	TaskTitle   string    `json:"taskTitle,omitempty"`
	XPEarned    int64     `db:"xp_earned" json:"xpEarned"`
	CoinsEarned int64     `db:"coins_earned" json:"coinsEarned"`
	LocalDay    string    `db:"local_day" json:"localDay"`
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Type *TaskType
}

// TaskPatch holds the mutable fields of a task; nil means unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	XPReward    *int64
	CoinReward  *int64
	DueDate     *time.Time
}

type TaskStatistics struct {
	TotalCompleted    int `json:"totalCompleted"`
	DailyCompleted    int `json:"dailyCompleted"`
	MissionsCompleted int `json:"missionsCompleted"`
	StreakDays        int `json:"streakDays"`
}

// DailySweep summarises one timezone pass of the daily reset.
type DailySweep struct {
	Timezone   string `json:"timezone"`
	LocalDay   string `json:"localDay"`
	Users      int    `json:"users"`
	DailyTasks int    `json:"dailyTasks"`
}

type ResetResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
