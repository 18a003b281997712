package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"questline/internal/domain"
	"questline/internal/logger"
	"questline/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Resetter forces the daily reset sweep.
type Resetter interface {
	ForceReset(ctx context.Context) domain.ResetResult
}

// AchievementChecker re-evaluates achievements for one user.
type AchievementChecker interface {
	CheckAllAchievements(ctx context.Context, userID int64) (*domain.AchievementCheck, error)
}

// AdminBot handles admin commands via Telegram
type AdminBot struct {
	bot          *tgbotapi.BotAPI
	adminService *service.AdminService
	resetter     Resetter
	checker      AchievementChecker
	adminIDs     []int64 // Telegram user IDs who can use admin commands
	stopCh       chan struct{}
	wg           sync.WaitGroup
	log          *logger.Logger
}

// NewAdminBot creates a new admin bot
func NewAdminBot(token string, adminService *service.AdminService, resetter Resetter, checker AchievementChecker, adminIDs []int64) (*AdminBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newAdminBot(adminService, resetter, checker, adminIDs)
	b.bot = api
	b.log.Info("admin bot authorized", "username", api.Self.UserName)
	return b, nil
}

func newAdminBot(adminService *service.AdminService, resetter Resetter, checker AchievementChecker, adminIDs []int64) *AdminBot {
	return &AdminBot{
		adminService: adminService,
		resetter:     resetter,
		checker:      checker,
		adminIDs:     adminIDs,
		stopCh:       make(chan struct{}),
		log:          logger.With("component", "admin_bot"),
	}
}

// Start starts listening for commands
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.From == nil || !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop gracefully stops the bot
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response := b.execute(ctx, msg.From.ID, msg.Command(), msg.CommandArguments())

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

// execute runs one command and returns the HTML reply.
func (b *AdminBot) execute(ctx context.Context, adminID int64, command, args string) string {
	b.log.Info("admin command", "admin_id", adminID, "command", command)

	switch command {
	case "start", "help":
		return helpMessage
	case "stats":
		return b.handleStats(ctx)
	case "user":
		return b.handleUser(ctx, args)
	case "addcoins":
		return b.handleAddCoins(ctx, adminID, args)
	case "check":
		return b.handleCheck(ctx, args)
	case "reset_daily":
		return b.handleResetDaily(ctx)
	case "audit":
		return b.handleAudit(ctx, args)
	default:
		return "❌ Unknown command. Use /help for the command list."
	}
}

const helpMessage = `<b>🤖 Admin commands</b>

<b>📊 Platform:</b>
/stats - Platform statistics
/audit [category] - Recent audit entries

<b>👤 Users:</b>
/user &lt;id|email&gt; - User info
/addcoins &lt;id&gt; &lt;amount&gt; - Grant coins
/check &lt;id&gt; - Re-check achievements

<b>🕛 Schedule:</b>
/reset_daily - Force the daily reset`

func (b *AdminBot) handleStats(ctx context.Context) string {
	stats, err := b.adminService.GetStats(ctx)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}

	return fmt.Sprintf(`<b>📊 Platform statistics</b>

<b>👥 Users:</b>
• Total: %d
• New today: %d
• Active today: %d

<b>✅ Tasks:</b>
• Completions today: %d
• Completions total: %d

<b>💰 Economy:</b>
• Coins in circulation: %d
• Spent today: %d
• Items owned: %d

<b>🏆 Achievements unlocked:</b> %d`,
		stats.TotalUsers,
		stats.NewUsersToday,
		stats.ActiveUsersToday,
		stats.CompletionsToday,
		stats.TotalCompletions,
		stats.CoinsInCirculation,
		stats.CoinsSpentToday,
		stats.ItemsOwned,
		stats.UnlockedAchievements,
	)
}

func (b *AdminBot) handleUser(ctx context.Context, args string) string {
	if args == "" {
		return "❌ Usage: /user <id|email>"
	}

	info, err := b.adminService.GetUser(ctx, args)
	if err != nil {
		return fmt.Sprintf("❌ User not found: %v", err)
	}

	u := info.User
	return fmt.Sprintf(`<b>👤 User</b>

• ID: %d
• Username: %s
• Email: %s
• ⭐ Level: %d (%d/%d XP)
• 🪙 Coins: %d
• ✅ Completions: %d
• 🌍 Timezone: %s
• 📅 Registered: %s`,
		u.ID,
		html.EscapeString(u.Username),
		html.EscapeString(u.Email),
		u.Progress.Level,
		u.Progress.CurrentXP,
		u.Progress.XPToNextLevel,
		info.Coins,
		info.Completions,
		u.Settings.Timezone,
		u.CreatedAt.Format("02.01.2006 15:04"),
	)
}

func (b *AdminBot) handleAddCoins(ctx context.Context, adminID int64, args string) string {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "❌ Usage: /addcoins <id> <amount>"
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "❌ Invalid user ID"
	}

	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || amount <= 0 {
		return "❌ Invalid amount"
	}

	w, err := b.adminService.AddCoins(ctx, adminID, userID, amount)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}

	return fmt.Sprintf("✅ Added %d 🪙 to user %d. New balance: %d", amount, userID, w.Coins)
}

func (b *AdminBot) handleCheck(ctx context.Context, args string) string {
	userID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return "❌ Usage: /check <id>"
	}

	check, err := b.checker.CheckAllAchievements(ctx, userID)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}
	var warn string
	if check.Degraded {
		warn = "\n⚠️ Some categories could not be checked, see logs"
	}
	if check.Count == 0 {
		return fmt.Sprintf("ℹ️ No new achievements for user %d", userID) + warn
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🏆 Unlocked for user %d</b>\n\n", userID))
	for _, a := range check.Unlocked {
		sb.WriteString(fmt.Sprintf("• %s %s\n", a.Icon, html.EscapeString(a.Name)))
	}
	sb.WriteString(warn)
	return sb.String()
}

func (b *AdminBot) handleResetDaily(ctx context.Context) string {
	res := b.resetter.ForceReset(ctx)
	if !res.Success {
		return "❌ " + html.EscapeString(res.Message)
	}
	return "✅ " + res.Message
}

func (b *AdminBot) handleAudit(ctx context.Context, args string) string {
	logs, err := b.adminService.RecentAudit(ctx, strings.TrimSpace(args), 10)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if len(logs) == 0 {
		return "ℹ️ No audit entries"
	}

	var sb strings.Builder
	sb.WriteString("<b>📜 Recent audit</b>\n\n")
	for _, l := range logs {
		who := "system"
		if l.UserID != nil {
			who = strconv.FormatInt(*l.UserID, 10)
		}
		sb.WriteString(fmt.Sprintf("%s • %s/%s • %s\n", l.CreatedAt.Format("02.01 15:04"), l.Category, l.Action, who))
	}
	return sb.String()
}

// NotifyAdmins sends message to every configured admin.
func (b *AdminBot) NotifyAdmins(message string) {
	for _, adminID := range b.adminIDs {
		msg := tgbotapi.NewMessage(adminID, message)
		msg.ParseMode = "HTML"
		if _, err := b.bot.Send(msg); err != nil {
			b.log.Error("failed to notify admin", "admin_id", adminID, "error", err)
		}
	}
}
