package domain

// ProgressionResult is returned by every reward-granting operation.
type ProgressionResult struct {
	XPGained             int64          `json:"xpGained"`
	CoinsGained          int64          `json:"coinsGained"`
	CurrentXP            int64          `json:"currentXp"`
	XPToNextLevel        int64          `json:"xpToNextLevel"`
	CurrentLevel         int            `json:"currentLevel"`
	LeveledUp            bool           `json:"leveledUp"`
	UnlockedAchievements []*Achievement `json:"unlockedAchievements"`
}
