package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/model"
	"casino-bot/internal/repository"
)

// adminAccounts is what the admin commands need from the account service.
type adminAccounts interface {
	GetUser(ctx context.Context, telegramID int64) (*model.User, error)
	AdminAdjust(ctx context.Context, telegramID int64, amount int64, subtract bool) (*model.User, error)
	AdminSet(ctx context.Context, telegramID int64, balance int64) (*model.User, error)
}

// AdminHandler handles admin-related commands.
type AdminHandler struct {
	accounts adminAccounts
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accounts adminAccounts) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// HandleAdminAdd handles the /admin_add command.
// Format: /admin_add <user_id> <amount>
func (h *AdminHandler) HandleAdminAdd(c tele.Context) error {
	return h.adjust(c, "admin_add", false)
}

// HandleAdminSub handles the /admin_sub command.
// Format: /admin_sub <user_id> <amount>
func (h *AdminHandler) HandleAdminSub(c tele.Context) error {
	return h.adjust(c, "admin_sub", true)
}

func (h *AdminHandler) adjust(c tele.Context, op string, subtract bool) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, amount, err := parseAdminArgs("/"+op, c.Args())
	if err != nil {
		return c.Reply(err.Error())
	}
	if amount <= 0 {
		return c.Reply("❌ 金额必须大于 0")
	}

	user, err := h.accounts.AdminAdjust(context.Background(), targetID, amount, subtract)
	if err != nil {
		return c.Reply(adminErrorReply(err))
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("amount", amount).
		Int64("balance", user.Balance).
		Str("operation", op).
		Msg("Admin operation executed")

	verb := "➕ 添加"
	if subtract {
		verb = "➖ 扣除"
	}
	return c.Reply(fmt.Sprintf(
		"✅ 操作成功\n\n"+
			"👤 用户: %s (ID: %d)\n"+
			"%s: %d 金币\n"+
			"💰 当前余额: %d 金币",
		nameOr(user.Username, targetID), targetID, verb, amount, user.Balance,
	))
}

// HandleAdminSet handles the /admin_set command.
// Format: /admin_set <user_id> <balance>
func (h *AdminHandler) HandleAdminSet(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, newBalance, err := parseAdminArgs("/admin_set", c.Args())
	if err != nil {
		return c.Reply(err.Error())
	}
	if newBalance < 0 {
		return c.Reply("❌ 余额不能为负数")
	}

	before, err := h.accounts.GetUser(ctx, targetID)
	if err != nil {
		return c.Reply(adminErrorReply(err))
	}

	user, err := h.accounts.AdminSet(ctx, targetID, newBalance)
	if err != nil {
		return c.Reply(adminErrorReply(err))
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("old_balance", before.Balance).
		Int64("new_balance", user.Balance).
		Str("operation", "admin_set").
		Msg("Admin operation executed")

	return c.Reply(fmt.Sprintf(
		"✅ 操作成功\n\n"+
			"👤 用户: %s (ID: %d)\n"+
			"📝 原余额: %d 金币\n"+
			"💰 新余额: %d 金币",
		nameOr(user.Username, targetID), targetID, before.Balance, user.Balance,
	))
}

// parseAdminArgs parses "<user_id> <amount>".
func parseAdminArgs(command string, args []string) (int64, int64, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("❌ 用法: %s <用户ID> <金额>\n例如: %s 123456789 100", command, command)
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, errors.New("❌ 用户ID格式错误，请输入数字")
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, errors.New("❌ 金额格式错误，请输入整数")
	}

	return targetID, amount, nil
}

func adminErrorReply(err error) string {
	if errors.Is(err, repository.ErrUserNotFound) {
		return "❌ 用户不存在"
	}
	log.Error().Err(err).Msg("Admin operation failed")
	return "❌ 操作失败，请稍后重试"
}
