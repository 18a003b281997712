package service

// Event names pushed to connected clients.
const (
	EventReward              = "reward"
	EventLevelUp             = "level_up"
	EventAchievementUnlocked = "achievement_unlocked"
)

// Notifier pushes realtime events to a user's open connections.
// Implementations must not block.
type Notifier interface {
	Notify(userID int64, event string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Notify(int64, string, any) {}
