package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram はTelegramのチャットへメッセージを送るNotifierです。
// fire-and-forgetの契約で、配信保証はBot API任せです。
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegram はBot APIクライアントを包んでNotifierを生成します。
func NewTelegram(api *tgbotapi.BotAPI, logger *zap.Logger) *Telegram {
	return &Telegram{api: api, logger: logger}
}

// Notify は指定チャットへテキストを送信します。chatIDが0の場合は
// 通知先なしとみなし、何もしません。
func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	// ボットトークン未設定で起動した場合は通知自体を無効化する
	if t == nil || t.api == nil {
		return nil
	}
	if chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send telegram message", zap.Int64("chatID", chatID), zap.Error(err))
		return err
	}
	return nil
}
