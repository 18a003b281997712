package domain

import "time"

// Starting progression state for new users.
const (
	StartingLevel       = 1
	StartingXPToNext    = 100
	DefaultTimezone     = "UTC"
	DefaultTheme        = "light"
	DefaultStartingCoin = 100
)

type User struct {
	ID              int64     `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`
	Username        string    `db:"username" json:"username"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	ProfileImageURL string    `db:"profile_image_url" json:"profileImageUrl,omitempty"`
	Progress        Progress  `json:"progress"`
	Settings        Settings  `json:"settings"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Progress is the XP and level state of a user.
// Invariant: CurrentXP < XPToNextLevel after every update.
type Progress struct {
	Level         int   `db:"level" json:"level"`
	CurrentXP     int64 `db:"current_xp" json:"currentXp"`
	XPToNextLevel int64 `db:"xp_to_next_level" json:"xpToNextLevel"`
}

// NewProgress returns the state every user starts with.
func NewProgress() Progress {
	return Progress{Level: StartingLevel, CurrentXP: 0, XPToNextLevel: StartingXPToNext}
}

// XPForLevel is the threshold needed to leave the given level.
func XPForLevel(level int) int64 {
	return 100 * int64(level)
}

// AddXP adds xp and resolves every level-up it pays for.
func (p *Progress) AddXP(xp int64) (leveledUp bool) {
	p.CurrentXP += xp
	for p.CurrentXP >= p.XPToNextLevel {
		p.CurrentXP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = XPForLevel(p.Level)
		leveledUp = true
	}
	return leveledUp
}

type Settings struct {
	Theme               string `db:"theme" json:"theme"`
	EnableNotifications bool   `db:"enable_notifications" json:"enableNotifications"`
	Timezone            string `db:"timezone" json:"timezone"`
}

func DefaultSettings() Settings {
	return Settings{Theme: DefaultTheme, EnableNotifications: true, Timezone: DefaultTimezone}
}

// PublicProfile is what other users may see.
type PublicProfile struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	Level           int       `json:"level"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
		Level:           u.Progress.Level,
		CreatedAt:       u.CreatedAt,
	}
}

// UserStats is the progression snapshot exposed by the stats endpoint.
type UserStats struct {
	Level            int   `json:"level"`
	CurrentXP        int64 `json:"currentXp"`
	XPToNextLevel    int64 `json:"xpToNextLevel"`
	XPBonusPercent   int   `json:"xpBonusPercent"`
	CoinBonusPercent int   `json:"coinBonusPercent"`
}
