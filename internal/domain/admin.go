package domain

// PlatformStats is the admin overview.
type PlatformStats struct {
	TotalUsers           int64 `json:"total_users"`
	NewUsersToday        int64 `json:"new_users_today"`
	ActiveUsersToday     int64 `json:"active_users_today"`
	CompletionsToday     int64 `json:"completions_today"`
	TotalCompletions     int64 `json:"total_completions"`
	CoinsInCirculation   int64 `json:"coins_in_circulation"`
	CoinsSpentToday      int64 `json:"coins_spent_today"`
	UnlockedAchievements int64 `json:"unlocked_achievements"`
	ItemsOwned           int64 `json:"items_owned"`
}
