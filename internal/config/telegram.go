package config

// Telegram учётные данные бота для уведомлений операторов. Пустой токен
// или chat id отключают уведомления, а не ломают запуск.
type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN" json:"-"`
	ChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}
