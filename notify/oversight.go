package notify

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OversightHub は運営の監督チャンネルです。接続中の管理ダッシュボードへ
// WebSocketでブロードキャストし、設定されていれば固定のTelegramチャットにも
// 同じ内容をミラーします。
type OversightHub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	telegram *Telegram
	chatID   int64 // 監督用の固定チャット（0なら無効）
	logger   *zap.Logger
}

// NewOversightHub はOversightHubを生成します。
func NewOversightHub(telegram *Telegram, chatID int64, logger *zap.Logger) *OversightHub {
	return &OversightHub{
		conns:    make(map[*websocket.Conn]bool),
		telegram: telegram,
		chatID:   chatID,
		logger:   logger,
	}
}

// Add は管理ダッシュボードの接続を登録します。
func (h *OversightHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	h.logger.Info("Oversight dashboard connected")
}

// Remove は接続を取り除いて閉じます。
func (h *OversightHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

type oversightMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify は監督チャンネルへテキストを届けます。書き込みに失敗した接続は
// その場で切り離します。Telegramミラーの失敗だけをエラーとして返します。
func (h *OversightHub) Notify(ctx context.Context, text string) error {
	msg := oversightMessage{Type: "result_report", Text: text}

	h.mu.Lock()
	var dead []*websocket.Conn
	for conn := range h.conns {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Error("Failed to write to oversight dashboard", zap.Error(err))
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()

	if h.telegram != nil && h.chatID != 0 {
		return h.telegram.Notify(ctx, h.chatID, text)
	}
	return nil
}
