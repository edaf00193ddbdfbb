package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tavernserver/enroll"
	"tavernserver/hearthstone"
	"tavernserver/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Directory はボットが必要とする読み取り専用の参照系です。
type Directory interface {
	ListTournaments(ctx context.Context, limit int) ([]models.Tournament, error)
	FindUserByChatID(ctx context.Context, chatID int64) (*models.User, error)
}

// Bot はTelegramの更新を受け取り、参加登録サービスへ型付きイベントを
// 流し込むアダプターです。交渉・登録のロジック自体は一切持ちません。
type Bot struct {
	api    *tgbotapi.BotAPI
	enroll *enroll.Service
	dir    Directory
	logger *zap.Logger
}

// New はBotを生成します。
func New(api *tgbotapi.BotAPI, enrollSvc *enroll.Service, dir Directory, logger *zap.Logger) *Bot {
	return &Bot{api: api, enroll: enrollSvc, dir: dir, logger: logger}
}

// Run は更新のロングポーリングループを回します。ctxのキャンセルで停止します。
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Sticker != nil {
		b.reply(msg.Chat.ID, "👍")
		return
	}

	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "我らの酒場へようこそ！\n使い方は /help で確認できます。")
	case "help":
		b.reply(msg.Chat.ID, "/add_me でトーナメントに参加登録できます。\n登録の途中でやめたい時はキャンセルボタンを押してください。")
	case "add_me":
		b.sendTournamentList(ctx, msg.Chat.ID)
	}
}

// sendTournamentList はトーナメント選択のインラインキーボードを送ります。
func (b *Bot) sendTournamentList(ctx context.Context, chatID int64) {
	list, err := b.dir.ListTournaments(ctx, 10)
	if err != nil {
		b.logger.Error("Failed to list tournaments", zap.Error(err))
		b.reply(chatID, "エラーが発生しました。後でもう一度お試しください。")
		return
	}
	if len(list) == 0 {
		b.reply(chatID, "現在募集中のトーナメントはありません。")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range list {
		data := fmt.Sprintf("tournament:select:%d", t.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ "+t.Title, data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "トーナメントを選択してください")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send tournament list", zap.Error(err))
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// コールバックの受領応答（ボタンのスピナーを止める）
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Error("Failed to answer callback query", zap.Error(err))
	}

	chatID := q.Message.Chat.ID
	channelKey := strconv.FormatInt(chatID, 10)

	event, err := ParseCallback(q.Data)
	if err != nil {
		b.logger.Error("Unknown callback data", zap.String("data", q.Data), zap.Error(err))
		return
	}

	switch event.Kind {
	case EventSelectTournament:
		user, err := b.dir.FindUserByChatID(ctx, chatID)
		if err != nil {
			b.reply(chatID, "アカウントが見つかりません。先にサイトでバトルタグとTelegramを連携してください。")
			return
		}
		prompt, err := b.enroll.Start(ctx, channelKey, user.ID, chatID, event.TournamentID)
		if err != nil {
			b.reply(chatID, enrollErrorText(err))
			return
		}
		b.sendPrompt(chatID, prompt)

	case EventSelectDeck:
		prompt, err := b.enroll.SelectDeck(ctx, channelKey, event.ClassID)
		if err != nil {
			b.reply(chatID, enrollErrorText(err))
			return
		}
		if prompt.Completed {
			b.reply(chatID, fmt.Sprintf("登録が完了しました！（選択したデッキ: %s）",
				strings.Join(hearthstone.Titles(prompt.Selected), "、")))
			return
		}
		b.sendPrompt(chatID, prompt)

	case EventCancel:
		if err := b.enroll.Cancel(ctx, channelKey); err != nil {
			b.reply(chatID, enrollErrorText(err))
			return
		}
		b.reply(chatID, "参加登録をキャンセルしました。")
	}
}

// sendPrompt は残りのクラス選択肢を3列のインラインキーボードで提示します。
func (b *Bot) sendPrompt(chatID int64, prompt *enroll.Prompt) {
	text := "ヒーロークラスを選択してください"
	if len(prompt.Selected) > 0 {
		text += fmt.Sprintf("（選択済み: %s）", strings.Join(hearthstone.Titles(prompt.Selected), "、"))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range prompt.Remaining {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(d.Title, "deck:select:"+d.ID))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ キャンセル", "enroll:cancel"),
	))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send enroll prompt", zap.Error(err))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("Failed to send reply", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// enrollErrorText はサービスのエラー分類をユーザー向けの文言に変換します。
func enrollErrorText(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "トーナメントが見つかりません。"
	case errors.Is(err, models.ErrConflict):
		return "このトーナメントには既に登録済みです。"
	case errors.Is(err, models.ErrInvalidChoice):
		return "そのクラスは選択できません。別のクラスを選んでください。"
	case errors.Is(err, models.ErrInvalidState):
		return "進行中の登録がありません。/add_me からやり直してください。"
	default:
		return "エラーが発生しました。後でもう一度お試しください。"
	}
}
