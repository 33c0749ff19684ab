package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"amo_checkbox/internal/config"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// TelegramBot уведомляет операторов о результатах фискализации. Отправка
// строго best-effort: любая ошибка только логируется, незаполненные
// токен или chat id выключают уведомления целиком.
type TelegramBot struct {
	bot         *telego.Bot
	chatID      int64
	senderNames map[string]string
}

func NewTelegramBot(cfg config.Telegram, senderNames map[string]string) (*TelegramBot, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return &TelegramBot{senderNames: senderNames}, nil
	}

	bot, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:         bot,
		chatID:      cfg.ChatID,
		senderNames: senderNames,
	}, nil
}

// SenderName возвращает имя отправителя, закреплённое за профилем кассы,
// либо сам идентификатор профиля, если имя не настроено.
func (b *TelegramBot) SenderName(profileID string) string {
	if name, ok := b.senderNames[profileID]; ok && name != "" {
		return name
	}

	return profileID
}

// Notify отправляет сообщение в операторский чат.
func (b *TelegramBot) Notify(ctx context.Context, text string) {
	b.send(ctx, text)
}

// NotifyProfile отправляет сообщение, помеченное именем отправителя профиля.
func (b *TelegramBot) NotifyProfile(ctx context.Context, profileID, text string) {
	if profileID != "" {
		text = fmt.Sprintf("<b>%s</b>\n%s", b.SenderName(profileID), text)
	}

	b.send(ctx, text)
}

func (b *TelegramBot) send(ctx context.Context, text string) {
	if b == nil || b.bot == nil {
		return
	}

	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		logger(ctx).Error("telegram send failed", logx.Error(err))
	}
}
